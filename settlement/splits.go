package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Split builders turn an item amount and its consumers into the positional
// Splits the balance engine expects.

func newSplits(consumers []int, parts []int64, total int64) []Split {
	splits := make([]Split, len(consumers))
	for i, idx := range consumers {
		splits[i] = Split{ParticipantIndex: idx, Amount: Amount(fromCents(parts[i]))}
		if total != 0 {
			pct := decimal.NewFromInt(parts[i]).Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(total)).Round(2).InexactFloat64()
			splits[i].Percentage = &pct
		}
	}
	return splits
}

// EqualSplits divides amount evenly. Leftover cents go to the first consumers.
func EqualSplits(amount Amount, consumers []int) ([]Split, error) {
	if len(consumers) == 0 {
		return nil, ErrNoConsumers
	}
	total := toCents(amount.Float64())
	return newSplits(consumers, splitCents(total, len(consumers)), total), nil
}

// PercentageSplits requires the percentages to add up to 100.
func PercentageSplits(amount Amount, consumers []int, percentages []float64) ([]Split, error) {
	if len(consumers) == 0 {
		return nil, ErrNoConsumers
	}
	if len(percentages) != len(consumers) {
		return nil, fmt.Errorf("%w: %d percentages for %d consumers", ErrSplitMismatch, len(percentages), len(consumers))
	}

	weights := make([]decimal.Decimal, len(percentages))
	sum := decimal.Zero
	for i, p := range percentages {
		if p < 0 {
			return nil, fmt.Errorf("%w: negative percentage %.2f", ErrSplitTotal, p)
		}
		weights[i] = toDecimal(p)
		sum = sum.Add(weights[i])
	}
	if toCents(sum.InexactFloat64()) != 100*100 {
		return nil, fmt.Errorf("%w: percentages must add up to 100, got %.2f", ErrSplitTotal, sum.InexactFloat64())
	}

	total := toCents(amount.Float64())
	return newSplits(consumers, distribute(total, weights), total), nil
}

// ExactSplits takes the amounts as given. They must add up to the item amount.
func ExactSplits(amount Amount, consumers []int, amounts []float64) ([]Split, error) {
	if len(consumers) == 0 {
		return nil, ErrNoConsumers
	}
	if len(amounts) != len(consumers) {
		return nil, fmt.Errorf("%w: %d amounts for %d consumers", ErrSplitMismatch, len(amounts), len(consumers))
	}

	parts := make([]int64, len(amounts))
	var sum int64
	for i, a := range amounts {
		parts[i] = toCents(a)
		sum += parts[i]
	}
	total := toCents(amount.Float64())
	if abs64(sum-total) > epsilonCents {
		return nil, fmt.Errorf("%w: split amounts (%.2f) don't add up to total (%.2f)", ErrSplitTotal, fromCents(sum), fromCents(total))
	}
	return newSplits(consumers, parts, total), nil
}

// ShareSplits divides amount by weight, e.g. 2 shares, 1 share, 1 share.
func ShareSplits(amount Amount, consumers []int, shares []float64) ([]Split, error) {
	if len(consumers) == 0 {
		return nil, ErrNoConsumers
	}
	if len(shares) != len(consumers) {
		return nil, fmt.Errorf("%w: %d shares for %d consumers", ErrSplitMismatch, len(shares), len(consumers))
	}

	weights := make([]decimal.Decimal, len(shares))
	for i, s := range shares {
		if s < 0 {
			return nil, fmt.Errorf("%w: negative share %.2f", ErrSplitTotal, s)
		}
		weights[i] = toDecimal(s)
	}

	total := toCents(amount.Float64())
	parts := distribute(total, weights)
	if parts == nil {
		return nil, fmt.Errorf("%w: total shares must be greater than 0", ErrSplitTotal)
	}
	return newSplits(consumers, parts, total), nil
}
