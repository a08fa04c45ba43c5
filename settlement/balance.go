package settlement

// charge is a keyed per-participant delta in cents. Negative for money a
// participant fronted, positive for money they owe.
type charge struct {
	index int
	cents int64
}

// payerCharges spreads the item amount over its payers. The divisor counts
// every listed payer, including ones with an out-of-range index.
func payerCharges(item Item) []charge {
	n := len(item.SelectedPayers)
	if n == 0 {
		return nil
	}
	shares := splitCents(toCents(item.Amount.Float64()), n)
	charges := make([]charge, 0, n)
	for i, idx := range item.SelectedPayers {
		charges = append(charges, charge{index: idx, cents: -shares[i]})
	}
	return charges
}

// consumerCharges pairs SelectedConsumers[i] with Splits[i]. Consumers
// without a split at their position are not charged.
func consumerCharges(item Item) []charge {
	charges := make([]charge, 0, len(item.SelectedConsumers))
	for pos, idx := range item.SelectedConsumers {
		if pos >= len(item.Splits) {
			break
		}
		charges = append(charges, charge{index: idx, cents: toCents(item.Splits[pos].Amount.Float64())})
	}
	return charges
}

func feeCharges(fee Fee) []charge {
	charges := make([]charge, 0, len(fee.Splits))
	for _, s := range fee.Splits {
		charges = append(charges, charge{index: s.ParticipantIndex, cents: toCents(s.Amount.Float64())})
	}
	return charges
}

// ledger returns the net cents per participant. Charges pointing outside
// the participant list are dropped.
func ledger(expense Expense) []int64 {
	cents := make([]int64, len(expense.Participants))
	apply := func(charges []charge) {
		for _, c := range charges {
			if c.index < 0 || c.index >= len(cents) {
				continue
			}
			cents[c.index] += c.cents
		}
	}

	for _, item := range expense.Items {
		apply(payerCharges(item))
		apply(consumerCharges(item))
	}
	for _, fee := range expense.Fees {
		apply(feeCharges(fee))
	}
	return cents
}

// ComputeBalances derives each participant's net balance from the expense.
// Balances come back in participant order.
func ComputeBalances(expense Expense) []Balance {
	cents := ledger(expense)
	balances := make([]Balance, len(expense.Participants))
	for i, p := range expense.Participants {
		balances[i] = Balance{
			Name:    p.Name,
			Index:   i,
			Balance: fromCents(cents[i]),
		}
	}
	return balances
}
