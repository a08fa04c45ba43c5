package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActivityExpenseAdded        = "expense_added"
	ActivityExpenseUpdated      = "expense_updated"
	ActivityExpenseDeleted      = "expense_deleted"
	ActivitySettlementConfirmed = "settlement_confirmed"
	ActivitySettlementPaid      = "settlement_paid"
)

type Activity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID    uuid.UUID `gorm:"type:uuid;index" json:"expense_id"`
	ExpenseTitle string    `gorm:"-" json:"expense_title,omitempty"`
	UserID       uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type         string    `gorm:"not null;size:30" json:"type"`
	ReferenceID  uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
