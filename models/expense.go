package models

import (
	"settleup-backend/settlement"
	"settleup-backend/utils"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Expense is a stored expense record. The settlement input (participants,
// items, fees) lives in JSON columns exactly as the app sent it.
type Expense struct {
	ID               uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID          uuid.UUID                `gorm:"type:uuid;index" json:"owner_id"`
	Owner            User                     `gorm:"foreignKey:OwnerID" json:"-"`
	Title            string                   `gorm:"not null;size:255" json:"title"`
	Currency         string                   `gorm:"default:INR;size:3" json:"currency"`
	Notes            string                   `json:"notes,omitempty"`
	ExpenseDate      time.Time                `gorm:"type:date;default:CURRENT_DATE" json:"expense_date"`
	Participants     []settlement.Participant `gorm:"serializer:json;type:jsonb" json:"participants"`
	Items            []settlement.Item        `gorm:"serializer:json;type:jsonb" json:"items"`
	Fees             []settlement.Fee         `gorm:"serializer:json;type:jsonb" json:"fees"`
	ParticipantNames pq.StringArray           `gorm:"type:text[]" json:"-"`
	Total            float64                  `gorm:"type:decimal(12,2)" json:"total"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the derived columns in step with the payload.
func (e *Expense) BeforeSave(tx *gorm.DB) error {
	e.ParticipantNames = ParticipantNames(e.Participants)
	e.Total = ExpenseTotal(e.Payload())
	return nil
}

func (e *Expense) Payload() settlement.Expense {
	return settlement.Expense{
		Participants: e.Participants,
		Items:        e.Items,
		Fees:         e.Fees,
	}
}

func (e *Expense) SetPayload(p settlement.Expense) {
	e.Participants = p.Participants
	e.Items = p.Items
	e.Fees = p.Fees
}

func ParticipantNames(participants []settlement.Participant) pq.StringArray {
	names := make(pq.StringArray, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return names
}

// ExpenseTotal is the subtotal plus every resolved fee.
func ExpenseTotal(p settlement.Expense) float64 {
	subtotal := settlement.Subtotal(p)
	total := subtotal
	for _, fee := range p.Fees {
		total += settlement.ResolveFeeAmount(fee, subtotal)
	}
	return utils.RoundToTwo(total)
}

// Request structs
type CreateExpenseRequest struct {
	Title       string             `json:"title" binding:"required"`
	Currency    string             `json:"currency"`
	Notes       string             `json:"notes"`
	ExpenseDate string             `json:"expense_date"` // YYYY-MM-DD
	Expense     settlement.Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	Title    string              `json:"title"`
	Currency string              `json:"currency"`
	Notes    string              `json:"notes"`
	Expense  *settlement.Expense `json:"expense"`
}

// Response
type ExpenseResponse struct {
	Expense
	Balances []settlement.Balance `json:"balances"`
}

func (e *Expense) ToResponse() ExpenseResponse {
	return ExpenseResponse{
		Expense:  *e,
		Balances: settlement.ComputeBalances(e.Payload()),
	}
}
