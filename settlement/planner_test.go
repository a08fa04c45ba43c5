package settlement

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balancesOf(names []string, values ...float64) []Balance {
	out := make([]Balance, len(values))
	for i, v := range values {
		out[i] = Balance{Name: names[i], Index: i, Balance: v}
	}
	return out
}

var abcd = []string{"A", "B", "C", "D"}

func TestPlanOptimal_TwoPeople(t *testing.T) {
	got := PlanOptimal(balancesOf(abcd, -50, 50))

	assert.Equal(t, []Settlement{{From: "B", FromIndex: 1, To: "A", ToIndex: 0, Amount: 50}}, got)
}

func TestPlanOptimal_OneCreditorTwoDebtors(t *testing.T) {
	got := PlanOptimal(balancesOf(abcd, -60, 30, 30))

	assert.Equal(t, []Settlement{
		{From: "B", FromIndex: 1, To: "A", ToIndex: 0, Amount: 30},
		{From: "C", FromIndex: 2, To: "A", ToIndex: 0, Amount: 30},
	}, got)
}

func TestPlanHub_SoleCreditorMatchesOptimal(t *testing.T) {
	balances := balancesOf(abcd, -60, 30, 30)

	assert.Equal(t, PlanOptimal(balances), PlanHub(balances))
}

func TestPlanHub_SymmetricCreditorsTieGoesToFirst(t *testing.T) {
	balances := balancesOf(abcd, 90, -30, -30, -30)

	assert.Equal(t, []Settlement{
		{From: "A", FromIndex: 0, To: "B", ToIndex: 1, Amount: 30},
		{From: "A", FromIndex: 0, To: "C", ToIndex: 2, Amount: 30},
		{From: "A", FromIndex: 0, To: "D", ToIndex: 3, Amount: 30},
	}, PlanOptimal(balances))
	assert.Equal(t, []Settlement{
		{From: "A", FromIndex: 0, To: "B", ToIndex: 1, Amount: 90},
		{From: "B", FromIndex: 1, To: "C", ToIndex: 2, Amount: 30},
		{From: "B", FromIndex: 1, To: "D", ToIndex: 3, Amount: 30},
	}, PlanHub(balances))
}

func TestPlanners_DivergeOnAsymmetricBalances(t *testing.T) {
	balances := balancesOf(abcd, 50, 50, -80, -20)

	assert.Equal(t, []Settlement{
		{From: "A", FromIndex: 0, To: "C", ToIndex: 2, Amount: 50},
		{From: "B", FromIndex: 1, To: "C", ToIndex: 2, Amount: 30},
		{From: "B", FromIndex: 1, To: "D", ToIndex: 3, Amount: 20},
	}, PlanOptimal(balances))
	assert.Equal(t, []Settlement{
		{From: "A", FromIndex: 0, To: "C", ToIndex: 2, Amount: 50},
		{From: "B", FromIndex: 1, To: "C", ToIndex: 2, Amount: 50},
		{From: "C", FromIndex: 2, To: "D", ToIndex: 3, Amount: 20},
	}, PlanHub(balances))
}

func TestPlanOptimal_LargestFirst(t *testing.T) {
	got := PlanOptimal(balancesOf(abcd, 10, -25, 40, -25))

	assert.Equal(t, []Settlement{
		{From: "C", FromIndex: 2, To: "B", ToIndex: 1, Amount: 25},
		{From: "C", FromIndex: 2, To: "D", ToIndex: 3, Amount: 15},
		{From: "A", FromIndex: 0, To: "D", ToIndex: 3, Amount: 10},
	}, got)
}

func TestPlanners_AllSettled(t *testing.T) {
	balances := balancesOf(abcd, 0.004, -0.01, 0.01, 0)

	assert.Empty(t, PlanOptimal(balances))
	assert.Empty(t, PlanHub(balances))
	assert.NotNil(t, PlanOptimal(balances))
	assert.NotNil(t, PlanHub(balances))
	assert.Empty(t, PlanOptimal(nil))
	assert.Empty(t, PlanHub(nil))
}

func TestPlanHub_OneSidedBalances(t *testing.T) {
	assert.Empty(t, PlanHub(balancesOf(abcd, 10, 20)))
	assert.Empty(t, PlanHub(balancesOf(abcd, -10, -20)))
}

func TestPlanners_RoundToCents(t *testing.T) {
	got := PlanOptimal(balancesOf(abcd, 33.3333, -33.3333))

	require.Len(t, got, 1)
	assert.Equal(t, 33.33, got[0].Amount)
}

func TestPlanners_DoNotMutateBalances(t *testing.T) {
	balances := balancesOf(abcd, 50, 50, -80, -20)
	snapshot := append([]Balance(nil), balances...)

	PlanOptimal(balances)
	PlanHub(balances)

	assert.Equal(t, snapshot, balances)
}

func TestPlanners_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	planners := map[Strategy]func([]Balance) []Settlement{
		StrategyOptimal: PlanOptimal,
		StrategyHub:     PlanHub,
	}

	for i := 0; i < 300; i++ {
		balances := ComputeBalances(randomExpense(t, rng))
		want := balanceMap(balances)

		for name, plan := range planners {
			settlements := plan(balances)

			for _, s := range settlements {
				assert.Greater(t, s.Amount, 0.01, "%s expense %d", name, i)
				assert.NotEqual(t, s.FromIndex, s.ToIndex, "%s expense %d", name, i)
			}

			net := netTransfers(settlements)
			for idx, b := range want {
				assert.InDelta(t, b, net[idx], 0.01, "%s expense %d participant %d", name, i, idx)
			}

			assert.Equal(t, settlements, plan(balances), "%s must be deterministic", name)
		}

		debtors, creditors := partition(balances)
		hub := PlanHub(balances)
		if len(debtors) > 0 && len(creditors) > 0 {
			assert.Len(t, hub, len(debtors)+len(creditors)-1)
			hubIndex := hub[0].ToIndex
			for _, s := range hub {
				assert.True(t, s.FromIndex == hubIndex || s.ToIndex == hubIndex, "expense %d: %+v bypasses hub", i, s)
			}
		}
		assert.LessOrEqual(t, len(PlanOptimal(balances)), len(hub), "expense %d", i)
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("optimal")
	require.NoError(t, err)
	assert.Equal(t, StrategyOptimal, s)

	s, err = ParseStrategy(" HUB ")
	require.NoError(t, err)
	assert.Equal(t, StrategyHub, s)

	_, err = ParseStrategy("fastest")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = ParseStrategy("")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestPlan_Dispatch(t *testing.T) {
	balances := balancesOf(abcd, 50, 50, -80, -20)

	got, err := Plan(StrategyHub, balances)
	require.NoError(t, err)
	assert.Equal(t, PlanHub(balances), got)

	_, err = Plan("bogus", balances)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
