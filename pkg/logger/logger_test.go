package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "warn", Output: &first, App: "smmctl"})
	Init(Options{Level: "debug", Output: &second})

	l := For("transport")
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	out := first.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info entry should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"component":"transport"`) || !strings.Contains(out, `"app":"smmctl"`) {
		t.Fatalf("missing context fields: %s", out)
	}
	if second.Len() != 0 {
		t.Fatalf("second Init must not replace the logger")
	}
}

func TestGet_BeforeInitIsNop(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	l := Get()
	l.Error().Msg("nowhere")
}
