package settlement

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func people(names ...string) []Participant {
	out := make([]Participant, len(names))
	for i, n := range names {
		out[i] = Participant{Name: n}
	}
	return out
}

// evenItem builds an item whose splits are an equal share per consumer.
func evenItem(t *testing.T, amount float64, payers, consumers []int) Item {
	t.Helper()
	splits, err := EqualSplits(Amount(amount), consumers)
	require.NoError(t, err)
	return Item{
		Amount:            Amount(amount),
		SelectedPayers:    payers,
		SelectedConsumers: consumers,
		Splits:            splits,
	}
}

func balanceMap(balances []Balance) map[int]float64 {
	out := make(map[int]float64, len(balances))
	for _, b := range balances {
		out[b.Index] = b.Balance
	}
	return out
}

// netTransfers returns, per participant index, what they paid minus what
// they received. For a valid plan this equals their balance.
func netTransfers(settlements []Settlement) map[int]float64 {
	out := make(map[int]float64)
	for _, s := range settlements {
		out[s.FromIndex] += s.Amount
		out[s.ToIndex] -= s.Amount
	}
	return out
}

// randomExpense builds a self-consistent expense. Amounts are multiples of
// 12 so every payer and consumer share is a whole number.
func randomExpense(t *testing.T, rng *rand.Rand) Expense {
	t.Helper()
	n := 2 + rng.Intn(5)
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('A' + i))
	}

	expense := Expense{Participants: people(names...)}
	for k := 0; k < 1+rng.Intn(4); k++ {
		amount := float64(12 * (1 + rng.Intn(20)))
		payers := pick(rng, n, 1+rng.Intn(min(3, n)))
		consumers := pick(rng, n, 1+rng.Intn(min(4, n)))
		expense.Items = append(expense.Items, evenItem(t, amount, payers, consumers))
	}
	return expense
}

func pick(rng *rand.Rand, n, k int) []int {
	return rng.Perm(n)[:k]
}
