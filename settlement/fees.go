package settlement

import "github.com/shopspring/decimal"

// Subtotal is the sum of all item amounts, before fees.
func Subtotal(expense Expense) float64 {
	var cents int64
	for _, item := range expense.Items {
		cents += toCents(item.Amount.Float64())
	}
	return fromCents(cents)
}

// ResolveFeeAmount returns the fee's money value. Percentage fees with a
// percentage set are taken from the subtotal; everything else uses Amount.
func ResolveFeeAmount(fee Fee, subtotal float64) float64 {
	if fee.Type == FeePercentage && fee.Percentage != nil {
		v := toDecimal(subtotal).Mul(toDecimal(*fee.Percentage)).Div(decimal.NewFromInt(100))
		return v.Round(2).InexactFloat64()
	}
	return fee.Amount.Float64()
}

// ProportionalFeeSplits charges the fee in proportion to what each
// participant consumed across the items. When nobody consumed anything the
// fee is split equally.
func ProportionalFeeSplits(expense Expense, feeAmount float64) []Split {
	n := len(expense.Participants)
	consumed := make([]int64, n)
	for _, item := range expense.Items {
		for _, c := range consumerCharges(item) {
			if c.index < 0 || c.index >= n || c.cents <= 0 {
				continue
			}
			consumed[c.index] += c.cents
		}
	}

	weights := make([]decimal.Decimal, n)
	for i, c := range consumed {
		weights[i] = decimal.NewFromInt(c)
	}
	parts := distribute(toCents(feeAmount), weights)
	if parts == nil {
		return EqualFeeSplits(n, feeAmount)
	}

	splits := make([]Split, 0, n)
	for i, p := range parts {
		if consumed[i] == 0 {
			continue
		}
		splits = append(splits, Split{ParticipantIndex: i, Amount: Amount(fromCents(p))})
	}
	return splits
}

func EqualFeeSplits(participantCount int, feeAmount float64) []Split {
	if participantCount <= 0 {
		return []Split{}
	}
	parts := splitCents(toCents(feeAmount), participantCount)
	splits := make([]Split, participantCount)
	for i, p := range parts {
		splits[i] = Split{ParticipantIndex: i, Amount: Amount(fromCents(p))}
	}
	return splits
}
