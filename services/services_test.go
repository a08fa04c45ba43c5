package services

import (
	"context"
	"settleup-backend/config"
	"settleup-backend/models"
	"settleup-backend/settlement"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{AppName: "SettleUp", PlanCacheTTL: time.Minute}
	t.Cleanup(func() { config.AppConfig = prev })
}

func dinner() settlement.Expense {
	return settlement.Expense{
		Participants: []settlement.Participant{{Name: "A"}, {Name: "B"}},
		Items: []settlement.Item{{
			Amount:            100,
			SelectedPayers:    []int{0},
			SelectedConsumers: []int{0, 1},
			Splits: []settlement.Split{
				{ParticipantIndex: 0, Amount: 50},
				{ParticipantIndex: 1, Amount: 50},
			},
		}},
	}
}

func TestPlanCacheKey(t *testing.T) {
	a, err := PlanCacheKey(dinner(), settlement.StrategyOptimal)
	require.NoError(t, err)
	b, err := PlanCacheKey(dinner(), settlement.StrategyOptimal)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "settleup:plan:optimal:"))

	hub, err := PlanCacheKey(dinner(), settlement.StrategyHub)
	require.NoError(t, err)
	assert.NotEqual(t, a, hub)

	changed := dinner()
	changed.Items[0].Amount = 120
	c, err := PlanCacheKey(changed, settlement.StrategyOptimal)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestPlanCacheWithoutRedis(t *testing.T) {
	for _, pc := range []*PlanCache{nil, NewPlanCache(nil, time.Minute)} {
		result, hit, err := pc.Calculate(context.Background(), dinner(), settlement.StrategyOptimal)
		require.NoError(t, err)
		assert.False(t, hit)
		require.Len(t, result.Settlements, 1)
		assert.Equal(t, "B", result.Settlements[0].From)
		assert.Equal(t, "A", result.Settlements[0].To)
		assert.InDelta(t, 50, result.Settlements[0].Amount, 0.001)
	}
}

func TestSettlementMessageJSON(t *testing.T) {
	row := models.Settlement{
		ID:        uuid.New(),
		ExpenseID: uuid.New(),
		FromName:  "B",
		FromIndex: 1,
		ToName:    "A",
		ToIndex:   0,
		Amount:    50,
		Currency:  "INR",
		Strategy:  "optimal",
		Status:    models.SettlementPending,
	}
	msg := NewSettlementMessage(EventSettlementConfirmed, row)

	body, err := msg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"event":"settlement.confirmed"`)

	decoded, err := SettlementMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, row.ID, decoded.SettlementID)
	assert.Equal(t, row.ExpenseID, decoded.ExpenseID)
	assert.Equal(t, "B", decoded.From)
	assert.Equal(t, 0, decoded.ToIndex)

	_, err = SettlementMessageFromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *EventPublisher
	assert.NoError(t, p.Publish(context.Background(), &SettlementMessage{Event: EventSettlementPaid}))
	p.PublishSettlements(context.Background(), EventSettlementPaid, []models.Settlement{{}})
	assert.NoError(t, p.Close())
}

func TestEmailTemplates(t *testing.T) {
	withConfig(t)

	html := buildSettlementRequestEmailHTML("Bea", "Ann", "Cal", "Pizza <night>", "INR", 12.5)
	assert.Contains(t, html, "Bea")
	assert.Contains(t, html, "Pay Cal INR 12.50")
	assert.Contains(t, html, "Pizza &lt;night&gt;")
	assert.Contains(t, html, "SettleUp")

	html = buildSettlementPaidEmailHTML("Bea", "Ann", "Pizza", "USD", 7)
	assert.Contains(t, html, "USD 7.00")
	assert.Contains(t, html, "Bea")
}

func TestNotificationsWithoutChannels(t *testing.T) {
	withConfig(t)
	ns := &NotificationService{}
	expense := models.Expense{Title: "Pizza", Participants: []settlement.Participant{{Name: "A", Username: "a"}, {Name: "B"}}}
	row := models.Settlement{FromIndex: 1, ToIndex: 0, FromName: "B", ToName: "A", Amount: 5}

	ns.NotifySettlementsConfirmed(context.Background(), expense, []models.Settlement{row}, models.User{})
	ns.NotifySettlementPaid(context.Background(), expense, row, models.User{})
	ns.sendPush(context.Background(), "token", "t", "b", nil)
	ns.sendEmail("a@example.com", "A", "s", "<p></p>")
}
