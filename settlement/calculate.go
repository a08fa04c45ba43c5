package settlement

// Calculate runs the whole pipeline for one expense: balances, then a plan
// for the chosen strategy.
func Calculate(expense *Expense, strategy Strategy) (*Result, error) {
	if expense == nil {
		return nil, ErrInvalidInput
	}

	balances := ComputeBalances(*expense)
	settlements, err := Plan(strategy, balances)
	if err != nil {
		return nil, err
	}

	return &Result{
		Settlements:      settlements,
		Balances:         balances,
		TotalSettlements: len(settlements),
		TotalAmount:      Summarize(settlements).TotalAmount,
	}, nil
}
