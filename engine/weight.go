package engine

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeWeight converts the legacy weight encodings into a numeric list:
// a bare number, an already-normalized list, a JSON-encoded array string, or
// a whitespace-separated token string. Unparsable tokens are silently dropped
// and negatives are discarded; this never fails. An empty result contributes
// zero to totals.
func NormalizeWeight(value any) []decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return normalizeWeightString(v)
	case []decimal.Decimal:
		weights := make([]decimal.Decimal, 0, len(v))
		for _, w := range v {
			if !w.IsNegative() {
				weights = append(weights, w)
			}
		}
		return weights
	case []float64:
		weights := make([]decimal.Decimal, 0, len(v))
		for _, f := range v {
			if f >= 0 {
				weights = append(weights, decimal.NewFromFloat(f))
			}
		}
		return weights
	case []any:
		weights := make([]decimal.Decimal, 0, len(v))
		for _, item := range v {
			weights = append(weights, NormalizeWeight(item)...)
		}
		return weights
	case float64:
		if v < 0 {
			return nil
		}
		return []decimal.Decimal{decimal.NewFromFloat(v)}
	case int:
		if v < 0 {
			return nil
		}
		return []decimal.Decimal{decimal.NewFromInt(int64(v))}
	case int64:
		if v < 0 {
			return nil
		}
		return []decimal.Decimal{decimal.NewFromInt(v)}
	case decimal.Decimal:
		if v.IsNegative() {
			return nil
		}
		return []decimal.Decimal{v}
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil || d.IsNegative() {
			return nil
		}
		return []decimal.Decimal{d}
	}
	return nil
}

func normalizeWeightString(s string) []decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Bracket-delimited strings are tried as JSON arrays first.
	if strings.HasPrefix(s, "[") {
		var raw []json.Number
		decoder := json.NewDecoder(strings.NewReader(s))
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err == nil {
			weights := make([]decimal.Decimal, 0, len(raw))
			for _, num := range raw {
				d, err := decimal.NewFromString(num.String())
				if err != nil || d.IsNegative() {
					continue
				}
				weights = append(weights, d)
			}
			return weights
		}
		// Not a valid JSON array after all; fall through to token splitting.
	}

	tokens := strings.Fields(s)
	weights := make([]decimal.Decimal, 0, len(tokens))
	for _, token := range tokens {
		d, err := decimal.NewFromString(token)
		if err != nil || d.IsNegative() {
			continue
		}
		weights = append(weights, d)
	}
	return weights
}

// SumWeights totals a normalized weight list.
func SumWeights(weights []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, w := range weights {
		total = total.Add(w)
	}
	return total
}
