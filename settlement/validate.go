package settlement

import (
	"fmt"
	"strings"
)

// Validate is the strict check applied before an expense is stored. The
// balance engine does not need it and tolerates everything reported here.
func Validate(expense Expense) error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	n := len(expense.Participants)
	if n == 0 {
		addf("at least one participant is required")
	}

	seen := make(map[string]int, n)
	for i, p := range expense.Participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			addf("participant %d: name is required", i)
			continue
		}
		if first, dup := seen[name]; dup {
			addf("participant %d: name %q already used by participant %d", i, name, first)
			continue
		}
		seen[name] = i
	}

	inRange := func(idx int) bool { return idx >= 0 && idx < n }

	for i, item := range expense.Items {
		if item.Amount < 0 {
			addf("item %d: amount must not be negative", i)
		}
		for _, idx := range item.SelectedPayers {
			if !inRange(idx) {
				addf("item %d: payer index %d out of range", i, idx)
			}
		}
		for _, idx := range item.SelectedConsumers {
			if !inRange(idx) {
				addf("item %d: consumer index %d out of range", i, idx)
			}
		}
		if len(item.Splits) != len(item.SelectedConsumers) {
			addf("item %d: %d splits for %d consumers", i, len(item.Splits), len(item.SelectedConsumers))
		}

		var sum int64
		for pos, s := range item.Splits {
			if pos < len(item.SelectedConsumers) && s.ParticipantIndex != item.SelectedConsumers[pos] {
				addf("item %d: split %d is for participant %d but consumer is %d", i, pos, s.ParticipantIndex, item.SelectedConsumers[pos])
			}
			sum += toCents(s.Amount.Float64())
		}
		if len(item.SelectedConsumers) > 0 {
			if total := toCents(item.Amount.Float64()); abs64(sum-total) > epsilonCents {
				addf("item %d: split amounts (%.2f) don't add up to total (%.2f)", i, fromCents(sum), fromCents(total))
			}
		}
	}

	subtotal := Subtotal(expense)
	for i, fee := range expense.Fees {
		switch fee.Type {
		case FeeFixed, FeePercentage:
		default:
			addf("fee %d: invalid type %q", i, fee.Type)
		}
		if fee.Type == FeePercentage && fee.Percentage == nil {
			addf("fee %d: percentage fee without percentage", i)
		}

		var sum int64
		for _, s := range fee.Splits {
			if !inRange(s.ParticipantIndex) {
				addf("fee %d: participant index %d out of range", i, s.ParticipantIndex)
			}
			sum += toCents(s.Amount.Float64())
		}
		if len(fee.Splits) > 0 {
			if total := toCents(ResolveFeeAmount(fee, subtotal)); abs64(sum-total) > epsilonCents {
				addf("fee %d: split amounts (%.2f) don't add up to fee (%.2f)", i, fromCents(sum), fromCents(total))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
