package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")

	log.Info("trade executed", "kind", "OPEN_LONG", "price", 100.5)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "trade executed" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["kind"] != "OPEN_LONG" {
		t.Fatalf("kind = %v", entry["kind"])
	}
}

func TestNewLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")

	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line leaked through warn level: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "loud", "text")

	log.Debug("dropped")
	log.Info("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Fatal("debug line leaked through default info level")
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("nothing to see")
}
