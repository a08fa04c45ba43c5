package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(v float64) *float64 { return &v }

func TestSubtotal(t *testing.T) {
	expense := Expense{Items: []Item{{Amount: 10.10}, {Amount: 20.20}, {}}}

	assert.Equal(t, 30.3, Subtotal(expense))
	assert.Equal(t, 0.0, Subtotal(Expense{}))
}

func TestResolveFeeAmount(t *testing.T) {
	assert.Equal(t, 8.55, ResolveFeeAmount(Fee{Type: FeePercentage, Percentage: pct(10)}, 85.50))
	assert.Equal(t, 4.17, ResolveFeeAmount(Fee{Type: FeePercentage, Percentage: pct(12.5)}, 33.33))
	assert.Equal(t, 5.0, ResolveFeeAmount(Fee{Type: FeeFixed, Amount: 5, Percentage: pct(50)}, 100))
	assert.Equal(t, 7.0, ResolveFeeAmount(Fee{Type: FeePercentage, Amount: 7}, 100))
}

func TestProportionalFeeSplits(t *testing.T) {
	splits, err := ExactSplits(90, []int{0, 1}, []float64{60, 30})
	require.NoError(t, err)
	expense := Expense{
		Participants: people("A", "B", "C"),
		Items:        []Item{{Amount: 90, SelectedPayers: []int{2}, SelectedConsumers: []int{0, 1}, Splits: splits}},
	}

	got := ProportionalFeeSplits(expense, 9)

	assert.Equal(t, []Split{
		{ParticipantIndex: 0, Amount: 6},
		{ParticipantIndex: 1, Amount: 3},
	}, got)
}

func TestProportionalFeeSplits_NothingConsumed(t *testing.T) {
	expense := Expense{Participants: people("A", "B", "C")}

	got := ProportionalFeeSplits(expense, 9)

	assert.Equal(t, []float64{3, 3, 3}, amountsOf(got))
}

func TestEqualFeeSplits(t *testing.T) {
	assert.Equal(t, []float64{3.34, 3.33, 3.33}, amountsOf(EqualFeeSplits(3, 10)))
	assert.Empty(t, EqualFeeSplits(0, 10))
}

func TestFeesFlowIntoBalances(t *testing.T) {
	expense := Expense{
		Participants: people("A", "B"),
		Items:        []Item{evenItem(t, 100, []int{0}, []int{0, 1})},
	}
	tip := Fee{Name: "tip", Type: FeePercentage, Percentage: pct(10)}
	tip.Amount = Amount(ResolveFeeAmount(tip, Subtotal(expense)))
	tip.Splits = ProportionalFeeSplits(expense, tip.Amount.Float64())
	expense.Fees = []Fee{tip}

	got := ComputeBalances(expense)

	assert.Equal(t, -45.0, got[0].Balance)
	assert.Equal(t, 55.0, got[1].Balance)
}
