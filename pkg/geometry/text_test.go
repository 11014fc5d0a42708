package geometry

import (
	"strings"
	"testing"
)

func TestLinesWraps(t *testing.T) {
	tx := &Text{Value: "Improve onboarding so that new customers reach value within their first week", Size: 20}
	lines := Lines(tx, Box{W: 3})
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	if got := strings.Join(lines, " "); got != tx.Value {
		t.Errorf("wrapped text lost words: %q", got)
	}
}

func TestLinesKeepsShortText(t *testing.T) {
	lines := Lines(&Text{Value: "Hello", Size: 20}, Box{W: 9})
	if len(lines) != 1 || lines[0] != "Hello" {
		t.Errorf("Lines = %v", lines)
	}
}

func TestLinesHonorsNewlines(t *testing.T) {
	lines := Lines(&Text{Value: "one\ntwo", Size: 12}, Box{W: 9})
	if len(lines) != 2 {
		t.Errorf("Lines = %v", lines)
	}
}

func TestLineHeight(t *testing.T) {
	if got := LineHeight(&Text{Size: 72, LineSpacing: 1}); got != 1 {
		t.Errorf("LineHeight = %v, want 1", got)
	}
}
