package settlement

import (
	"fmt"
	"sort"
	"strings"
)

type Strategy string

const (
	// StrategyOptimal matches the largest debtor with the largest creditor
	// until one side runs out. It is a greedy heuristic: it usually keeps the
	// transfer count low but is not guaranteed to reach the global minimum.
	StrategyOptimal Strategy = "optimal"
	// StrategyHub routes every transfer through the largest creditor.
	StrategyHub Strategy = "hub"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyOptimal:
		return StrategyOptimal, nil
	case StrategyHub:
		return StrategyHub, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// party is a working copy of one balance, stored as a positive magnitude.
type party struct {
	name  string
	index int
	cents int64
}

// partition copies balances into debtors and creditors, skipping anyone
// within 0.01 of zero. Input order is preserved.
func partition(balances []Balance) (debtors, creditors []party) {
	for _, b := range balances {
		c := toCents(b.Balance)
		switch {
		case c > epsilonCents:
			debtors = append(debtors, party{name: b.Name, index: b.Index, cents: c})
		case c < -epsilonCents:
			creditors = append(creditors, party{name: b.Name, index: b.Index, cents: -c})
		}
	}
	return debtors, creditors
}

func newSettlement(from, to party, cents int64) Settlement {
	return Settlement{
		From:      from.name,
		FromIndex: from.index,
		To:        to.name,
		ToIndex:   to.index,
		Amount:    fromCents(cents),
	}
}

// PlanOptimal settles balances with a two-pointer sweep over debtors and
// creditors, both ordered largest first.
func PlanOptimal(balances []Balance) []Settlement {
	debtors, creditors := partition(balances)
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].cents > debtors[j].cents })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].cents > creditors[j].cents })

	settlements := []Settlement{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]

		amount := min(d.cents, c.cents)
		if amount > epsilonCents {
			settlements = append(settlements, newSettlement(*d, *c, amount))
		}

		d.cents -= amount
		c.cents -= amount

		if d.cents <= epsilonCents {
			i++
		}
		if c.cents <= epsilonCents {
			j++
		}
	}
	return settlements
}

// PlanHub makes the largest creditor the hub: debtors pay the hub and the
// hub pays everyone else who is owed. Ties go to the first creditor.
func PlanHub(balances []Balance) []Settlement {
	debtors, creditors := partition(balances)
	if len(debtors) == 0 || len(creditors) == 0 {
		return []Settlement{}
	}

	hub := 0
	for k, c := range creditors {
		if c.cents > creditors[hub].cents {
			hub = k
		}
	}

	settlements := make([]Settlement, 0, len(debtors)+len(creditors)-1)
	for _, d := range debtors {
		settlements = append(settlements, newSettlement(d, creditors[hub], d.cents))
	}
	for k, c := range creditors {
		if k == hub {
			continue
		}
		settlements = append(settlements, newSettlement(creditors[hub], c, c.cents))
	}
	return settlements
}

// Plan dispatches to the planner for strategy.
func Plan(strategy Strategy, balances []Balance) ([]Settlement, error) {
	switch strategy {
	case StrategyOptimal:
		return PlanOptimal(balances), nil
	case StrategyHub:
		return PlanHub(balances), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
}
