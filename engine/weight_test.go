package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeWeight_EquivalentEncodings(t *testing.T) {
	// The same payload survives in three legacy encodings; all must sum alike.
	encodings := []struct {
		name  string
		value any
	}{
		{"json array string", `[1.5, 2.25, 3]`},
		{"space separated string", "1.5 2.25 3"},
		{"numeric slice", []float64{1.5, 2.25, 3}},
	}
	for _, enc := range encodings {
		weights := NormalizeWeight(enc.value)
		if len(weights) != 3 {
			t.Fatalf("%s: expected 3 weights, got %d", enc.name, len(weights))
		}
		if sum := SumWeights(weights); sum.String() != "6.75" {
			t.Fatalf("%s: expected sum 6.75, got %s", enc.name, sum.String())
		}
	}
}

func TestNormalizeWeight_DropsBadTokens(t *testing.T) {
	cases := []struct {
		name     string
		value    any
		expected string
	}{
		{"junk tokens dropped", "1.5 abc 2.5 --", "4"},
		{"negatives dropped", "3 -1 2", "5"},
		{"negatives dropped in json array", `[3, -1, 2]`, "5"},
		{"malformed json falls back to tokens", "[1.5 2.5", "2.5"},
		{"empty string", "", "0"},
		{"all junk", "n/a pending", "0"},
	}
	for _, tc := range cases {
		weights := NormalizeWeight(tc.value)
		if sum := SumWeights(weights); sum.String() != tc.expected {
			t.Fatalf("%s: expected sum %s, got %s", tc.name, tc.expected, sum.String())
		}
	}
}

func TestNormalizeWeight_Scalars(t *testing.T) {
	if weights := NormalizeWeight(nil); len(weights) != 0 {
		t.Fatalf("nil: expected empty, got %d entries", len(weights))
	}
	if weights := NormalizeWeight(12.5); len(weights) != 1 || weights[0].String() != "12.5" {
		t.Fatalf("float scalar: expected [12.5], got %v", weights)
	}
	if weights := NormalizeWeight(decimal.NewFromInt(-4)); len(weights) != 0 {
		t.Fatalf("negative scalar: expected empty, got %d entries", len(weights))
	}
}
