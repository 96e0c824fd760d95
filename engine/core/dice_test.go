// ABOUTME: Tests for the dice expression grammar and breakdown formatting.
package core_test

import (
	"strings"
	"testing"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

func TestRollDice_SingleDieRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		total, rolls, _, err := core.RollDice("d6")
		if err != nil {
			t.Fatalf("RollDice: %v", err)
		}
		if len(rolls) != 1 {
			t.Fatalf("expected 1 roll, got %d", len(rolls))
		}
		if total < 1 || total > 6 {
			t.Fatalf("expected total in [1,6], got %d", total)
		}
	}
}

func TestRollDice_CountAndModifier(t *testing.T) {
	total, rolls, breakdown, err := core.RollDice("3d8+2")
	if err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if len(rolls) != 3 {
		t.Fatalf("expected 3 rolls, got %d", len(rolls))
	}
	if total < 3+2 || total > 24+2 {
		t.Fatalf("expected total in [5,26], got %d", total)
	}
	if !strings.HasPrefix(breakdown, "3d8+2: [") {
		t.Fatalf("expected breakdown to start with '3d8+2: [', got %q", breakdown)
	}
	if !strings.Contains(breakdown, "+2=") {
		t.Fatalf("expected breakdown to show the modifier, got %q", breakdown)
	}
}

func TestRollDice_NegativeModifier(t *testing.T) {
	_, _, breakdown, err := core.RollDice("1d20-3")
	if err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if !strings.Contains(breakdown, "-3=") {
		t.Fatalf("expected breakdown to show the negative modifier, got %q", breakdown)
	}
}

func TestRollDice_InvalidExpression(t *testing.T) {
	cases := []string{"", "abc", "d1", "0d6", "2x6", "d6d6"}
	for _, c := range cases {
		if _, _, _, err := core.RollDice(c); err == nil {
			t.Errorf("expected error for invalid expression %q", c)
		}
	}
}

func TestRollDice_CaseInsensitiveAndWhitespace(t *testing.T) {
	if _, _, _, err := core.RollDice("2D6 + 1"); err != nil {
		t.Fatalf("expected '2D6 + 1' to parse, got error: %v", err)
	}
}
