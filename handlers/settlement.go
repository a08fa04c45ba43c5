package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"settleup-backend/database"
	"settleup-backend/models"
	"settleup-backend/services"
	"settleup-backend/settlement"
	"settleup-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// checkPlan rejects client-supplied transfers that don't fit the expense.
func checkPlan(expense *models.Expense, plan []settlement.Settlement) error {
	n := len(expense.Participants)
	for i, s := range plan {
		switch {
		case s.FromIndex < 0 || s.FromIndex >= n || s.ToIndex < 0 || s.ToIndex >= n:
			return fmt.Errorf("%w: settlement %d references an unknown participant", settlement.ErrInvalidInput, i)
		case s.FromIndex == s.ToIndex:
			return fmt.Errorf("%w: settlement %d pays itself", settlement.ErrInvalidInput, i)
		case s.Amount <= 0.01:
			return fmt.Errorf("%w: settlement %d amount must be greater than 0.01", settlement.ErrInvalidInput, i)
		}
	}
	return nil
}

// POST /api/expenses/:id/settlements
func ConfirmSettlements(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expense, ok := loadOwnedExpense(c)
	if !ok {
		return
	}

	var req models.ConfirmSettlementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	strategy, err := resolveStrategy(req.Strategy)
	if err != nil {
		respondCalcError(c, err)
		return
	}

	plan := req.Settlements
	if plan == nil {
		result, _, err := services.GetPlanCache().Calculate(c.Request.Context(), expense.Payload(), strategy)
		if err != nil {
			respondCalcError(c, err)
			return
		}
		plan = result.Settlements
	} else if err := checkPlan(expense, plan); err != nil {
		respondCalcError(c, err)
		return
	}

	// Names always come from the expense, not the request.
	for i := range plan {
		plan[i].From = expense.Participants[plan[i].FromIndex].Name
		plan[i].To = expense.Participants[plan[i].ToIndex].Name
	}

	rows := models.NewSettlements(expense, userID, string(strategy), plan, req.Notes)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// A new confirmation replaces whatever was still pending.
		if err := tx.Where("expense_id = ? AND status = ?", expense.ID, models.SettlementPending).
			Delete(&models.Settlement{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		utils.InternalError(c, "Failed to save settlements")
		return
	}

	var user models.User
	database.DB.First(&user, "id = ?", userID)

	summary := settlement.Summarize(models.PlanEntries(rows))
	logActivity(expense.ID, userID, models.ActivitySettlementConfirmed, expense.ID,
		fmt.Sprintf("%s settled \"%s\" in %d transfers (%s %.2f)", user.Name, expense.Title, summary.TotalTransactions, expense.Currency, summary.TotalAmount))

	// The request context is gone once we respond.
	go func(expense models.Expense, rows []models.Settlement, user models.User) {
		ctx := context.Background()
		services.GetEventPublisher().PublishSettlements(ctx, services.EventSettlementConfirmed, rows)
		services.GetNotificationService().NotifySettlementsConfirmed(ctx, expense, rows, user)
	}(*expense, rows, user)

	utils.SuccessResponse(c, http.StatusCreated, "Settlements confirmed", models.ExpenseSettlementsResponse{
		ExpenseID:   expense.ID,
		Settlements: rows,
		Summary:     summary,
	})
}

// GET /api/expenses/:id/settlements
func GetExpenseSettlements(c *gin.Context) {
	expense, ok := loadOwnedExpense(c)
	if !ok {
		return
	}

	var rows []models.Settlement
	if err := database.DB.Where("expense_id = ?", expense.ID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		utils.InternalError(c, "Failed to load settlements")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", models.ExpenseSettlementsResponse{
		ExpenseID:   expense.ID,
		Settlements: rows,
		Summary:     settlement.Summarize(models.PlanEntries(rows)),
	})
}

// PUT /api/settlements/:id/paid
func MarkSettlementPaid(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid settlement ID")
		return
	}

	var row models.Settlement
	if err := database.DB.First(&row, "id = ?", settlementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Settlement not found")
		} else {
			utils.InternalError(c, "Failed to load settlement")
		}
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, "id = ?", row.ExpenseID).Error; err != nil || expense.OwnerID != userID {
		utils.Forbidden(c, "You don't have access to this settlement")
		return
	}

	if row.Status == models.SettlementPaid {
		utils.SuccessResponse(c, http.StatusOK, "Settlement already paid", row)
		return
	}

	now := time.Now()
	if err := database.DB.Model(&row).Updates(map[string]interface{}{
		"status":  models.SettlementPaid,
		"paid_at": now,
	}).Error; err != nil {
		utils.InternalError(c, "Failed to update settlement")
		return
	}
	row.Status = models.SettlementPaid
	row.PaidAt = &now

	var user models.User
	database.DB.First(&user, "id = ?", userID)

	logActivity(expense.ID, userID, models.ActivitySettlementPaid, row.ID,
		fmt.Sprintf("%s paid %s %s %.2f", row.FromName, row.ToName, row.Currency, row.Amount))

	go func(expense models.Expense, row models.Settlement, user models.User) {
		ctx := context.Background()
		services.GetEventPublisher().PublishSettlements(ctx, services.EventSettlementPaid, []models.Settlement{row})
		services.GetNotificationService().NotifySettlementPaid(ctx, expense, row, user)
	}(expense, row, user)

	utils.SuccessResponse(c, http.StatusOK, "Settlement marked as paid", row)
}
