package settlement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_OK(t *testing.T) {
	expense := Expense{
		Participants: people("A", "B", "C"),
		Items:        []Item{evenItem(t, 90, []int{0}, []int{0, 1, 2})},
		Fees: []Fee{{
			Type:       FeePercentage,
			Percentage: pct(10),
			Splits:     EqualFeeSplits(3, 9),
		}},
	}

	assert.NoError(t, Validate(expense))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	expense := Expense{
		Participants: []Participant{{Name: "A"}, {Name: " "}, {Name: "A"}},
		Items: []Item{{
			Amount:            -10,
			SelectedPayers:    []int{9},
			SelectedConsumers: []int{0, 1},
			Splits:            []Split{{ParticipantIndex: 1, Amount: 4}},
		}},
		Fees: []Fee{{Type: "tip", Amount: 3, Splits: []Split{{ParticipantIndex: 4, Amount: 1}}}},
	}

	err := Validate(expense)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{
		"participant 1: name is required",
		`participant 2: name "A" already used by participant 0`,
		"item 0: amount must not be negative",
		"item 0: payer index 9 out of range",
		"item 0: 1 splits for 2 consumers",
		"item 0: split 0 is for participant 1 but consumer is 0",
		"item 0: split amounts (4.00) don't add up to total (-10.00)",
		`fee 0: invalid type "tip"`,
		"fee 0: participant index 4 out of range",
		"fee 0: split amounts (1.00) don't add up to fee (3.00)",
	}, verr.Problems)
}

func TestValidate_NoParticipants(t *testing.T) {
	err := Validate(Expense{})

	assert.ErrorContains(t, err, "at least one participant is required")
}
