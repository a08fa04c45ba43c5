package settlement

import "github.com/shopspring/decimal"

func Summarize(settlements []Settlement) Summary {
	total := decimal.Zero
	payers := make(map[string]struct{})
	receivers := make(map[string]struct{})
	people := make(map[string]struct{})

	for _, s := range settlements {
		total = total.Add(toDecimal(s.Amount))
		payers[s.From] = struct{}{}
		receivers[s.To] = struct{}{}
		people[s.From] = struct{}{}
		people[s.To] = struct{}{}
	}

	summary := Summary{
		TotalTransactions: len(settlements),
		TotalAmount:       total.InexactFloat64(),
		UniquePayers:      len(payers),
		UniqueReceivers:   len(receivers),
		UniquePeople:      len(people),
	}
	if len(settlements) > 0 {
		summary.AverageTransaction = total.Div(decimal.NewFromInt(int64(len(settlements)))).InexactFloat64()
	}
	return summary
}
