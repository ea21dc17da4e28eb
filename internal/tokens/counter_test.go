package tokens

import (
	"testing"

	"github.com/HMTking/greenify/internal/types"
)

func TestEstimate(t *testing.T) {
	tests := map[string]int{
		"":          0,
		"a":         1,
		"abcd":      1,
		"abcde":     2,
		"ééééé":     2,
		"water me!": 3,
	}
	for in, want := range tests {
		if got := Estimate(in); got != want {
			t.Errorf("Estimate(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestCounterFallback(t *testing.T) {
	c := New("no-such-encoding")
	if c.Exact() {
		t.Fatal("expected unknown encoding to fall back to estimates")
	}
	if c.Encoding() != "no-such-encoding" {
		t.Errorf("unexpected encoding %q", c.Encoding())
	}
	if got := c.Count("abcdefgh"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestCountMessages(t *testing.T) {
	c := &Counter{}
	msgs := []types.Message{
		{Role: types.RoleUser, Text: "abcd"},
		{Role: types.RoleAssistant, Text: "abcdefgh"},
		{Role: types.RoleError, Text: ""},
	}
	if got := c.CountMessages(msgs); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestCounterDefaultEncoding(t *testing.T) {
	c := New("")
	if c.Encoding() != DefaultEncoding {
		t.Errorf("expected %s, got %s", DefaultEncoding, c.Encoding())
	}
	if c.Count("") != 0 {
		t.Error("expected empty text to cost nothing")
	}
	if c.Count("Water twice a week.") == 0 {
		t.Error("expected non-empty text to cost tokens")
	}
}
