package sim

// Side classifies the direction of the open position.
type Side int

const (
	Flat  Side = 0
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	switch s {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// Account holds the quote-currency cash balance. Only the engine's
// order operations mutate it.
type Account struct {
	Balance float64
}

// Position is the single position of a run. Size is signed base units:
// positive long, negative short, zero flat. EntryPrice is zero exactly
// when Size is zero.
type Position struct {
	Size       float64
	EntryPrice float64
}

func (p Position) Side() Side {
	switch {
	case p.Size > 0:
		return Long
	case p.Size < 0:
		return Short
	default:
		return Flat
	}
}
