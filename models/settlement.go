package models

import (
	"settleup-backend/settlement"
	"settleup-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SettlementPending = "pending"
	SettlementPaid    = "paid"
)

// Settlement is one confirmed transfer from a plan the user chose.
type Settlement struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID uuid.UUID  `gorm:"type:uuid;index" json:"expense_id"`
	CreatedBy uuid.UUID  `gorm:"type:uuid" json:"created_by"`
	FromIndex int        `json:"from_index"`
	FromName  string     `gorm:"not null;size:100" json:"from_name"`
	ToIndex   int        `json:"to_index"`
	ToName    string     `gorm:"not null;size:100" json:"to_name"`
	Amount    float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency  string     `gorm:"default:INR;size:3" json:"currency"`
	Strategy  string     `gorm:"size:10" json:"strategy"`
	Status    string     `gorm:"default:pending;size:20;index" json:"status"` // pending, paid
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (s *Settlement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// PlanEntry converts the stored row back into the core settlement shape.
func (s *Settlement) PlanEntry() settlement.Settlement {
	return settlement.Settlement{
		From:      s.FromName,
		FromIndex: s.FromIndex,
		To:        s.ToName,
		ToIndex:   s.ToIndex,
		Amount:    s.Amount,
	}
}

// NewSettlements turns a plan into pending rows for an expense.
func NewSettlements(expense *Expense, createdBy uuid.UUID, strategy string, plan []settlement.Settlement, notes string) []Settlement {
	rows := make([]Settlement, 0, len(plan))
	for _, p := range plan {
		rows = append(rows, Settlement{
			ExpenseID: expense.ID,
			CreatedBy: createdBy,
			FromIndex: p.FromIndex,
			FromName:  p.From,
			ToIndex:   p.ToIndex,
			ToName:    p.To,
			Amount:    utils.RoundToTwo(p.Amount),
			Currency:  expense.Currency,
			Strategy:  strategy,
			Status:    SettlementPending,
			Notes:     notes,
		})
	}
	return rows
}

func PlanEntries(rows []Settlement) []settlement.Settlement {
	out := make([]settlement.Settlement, len(rows))
	for i := range rows {
		out[i] = rows[i].PlanEntry()
	}
	return out
}

type ConfirmSettlementsRequest struct {
	Strategy    string                  `json:"strategy"`
	Settlements []settlement.Settlement `json:"settlements"` // omitted: computed from strategy
	Notes       string                  `json:"notes"`
}

type ExpenseSettlementsResponse struct {
	ExpenseID   uuid.UUID          `json:"expense_id"`
	Settlements []Settlement       `json:"settlements"`
	Summary     settlement.Summary `json:"summary"`
}
