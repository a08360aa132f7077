package report

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

// Run ties a summary to the run that produced it, for the org-mode
// report file.
type Run struct {
	RunID    string
	Created  time.Time
	Symbol   string
	Interval string
	Strategy string
	Dataset  string

	Start time.Time
	End   time.Time

	Summary Summary

	Notes []string
}

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// WriteOrg renders the run as an org-mode section at path.
func (r *Run) WriteOrg(path string) error {
	t, err := template.New("run").Funcs(orgFuncs).Parse(orgTemplate)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, r); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const orgTemplate = `
* BACKTEST: {{.Strategy}} {{.Symbol}} {{if .Interval}}{{.Interval}}{{else}}(interval?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:SYMBOL:      {{.Symbol}}
:INTERVAL:    {{if .Interval}}{{.Interval}}{{else}}(interval?){{end}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_BAL:   {{printf "%.2f" .Summary.InitialBalance}}
:FINAL_EQ:    {{printf "%.2f" .Summary.FinalEquity}}
:NET_PL:      {{printf "%.2f" .Summary.TotalPnL}}
:RETURN_PCT:  {{printf "%.2f" .Summary.TotalPnLPct}}
:CLOSED_PL:   {{printf "%.2f" .Summary.ClosedPnL}}
:MAX_DD_PCT:  {{printf "%.2f" .Summary.MaxDrawdownPct}}
:ORDERS:      {{.Summary.Orders}}
:OPENS:       {{.Summary.Opens}}
:WINS:        {{.Summary.Wins}}
:LOSSES:      {{.Summary.Losses}}
:WIN_RATE:    {{printf "%.2f" (mul100 .Summary.WinRate)}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{printf "%.2f" .Summary.TotalPnL}}*
- Return:           *{{printf "%.2f" .Summary.TotalPnLPct}}%*
- Closed P/L:       *{{printf "%.2f" .Summary.ClosedPnL}}*
- Max Drawdown:     *{{printf "%.2f" .Summary.MaxDrawdownPct}}%*
- Win Rate:         *{{printf "%.2f" (mul100 .Summary.WinRate)}}%*
{{- if ne .Summary.OpenPosition 0.0}}
- Open Position:    *{{printf "%.6f" .Summary.OpenPosition}}* (unrealized {{printf "%.2f" .Summary.UnrealizedValue}})
{{- end}}

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Summary.Wins}} |
| Losses  | {{.Summary.Losses}} |
| Opens   | {{.Summary.Opens}} |
| Orders  | {{.Summary.Orders}} |

{{- if .Notes }}
** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
