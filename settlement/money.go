package settlement

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// epsilonCents is the 0.01 tolerance below which a balance counts as settled.
const epsilonCents int64 = 1

// Amount is a monetary value as sent by clients. Decoding never fails:
// numbers and numeric strings are accepted, anything else becomes zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}
	*a = Amount(d.InexactFloat64())
	return nil
}

func (a Amount) Float64() float64 {
	return float64(a)
}

func toDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// toCents rounds half away from zero.
func toCents(v float64) int64 {
	return toDecimal(v).Round(2).Shift(2).IntPart()
}

func fromCents(c int64) float64 {
	return decimal.New(c, -2).InexactFloat64()
}

// splitCents divides total into n parts that differ by at most one cent.
// Leftover cents go to the first parts.
func splitCents(total int64, n int) []int64 {
	parts := make([]int64, n)
	if n == 0 {
		return parts
	}
	base, rem := total/int64(n), total%int64(n)
	for i := range parts {
		parts[i] = base
		switch {
		case rem > 0:
			parts[i]++
			rem--
		case rem < 0:
			parts[i]--
			rem++
		}
	}
	return parts
}

// distribute splits total proportionally to weights. Rounding leftovers land
// on the first part with a non-zero weight. Returns nil when weights sum to zero.
func distribute(total int64, weights []decimal.Decimal) []int64 {
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(w)
	}
	if sum.IsZero() {
		return nil
	}

	parts := make([]int64, len(weights))
	first := -1
	var assigned int64
	whole := decimal.NewFromInt(total)
	for i, w := range weights {
		if w.IsZero() {
			continue
		}
		if first < 0 {
			first = i
		}
		parts[i] = whole.Mul(w).Div(sum).Round(0).IntPart()
		assigned += parts[i]
	}
	parts[first] += total - assigned
	return parts
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
