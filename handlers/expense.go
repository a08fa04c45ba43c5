package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"settleup-backend/database"
	"settleup-backend/models"
	"settleup-backend/services"
	"settleup-backend/settlement"
	"settleup-backend/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpensePlanResponse struct {
	PlanResponse
	ExpenseID uuid.UUID `json:"expense_id"`
	Cached    bool      `json:"cached"`
}

// loadOwnedExpense writes the error response itself and returns false on failure.
func loadOwnedExpense(c *gin.Context) (*models.Expense, bool) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return nil, false
	}

	var expense models.Expense
	if err := database.DB.First(&expense, "id = ?", expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Expense not found")
		} else {
			utils.InternalError(c, "Failed to load expense")
		}
		return nil, false
	}

	if expense.OwnerID != utils.GetCurrentUserID(c) {
		utils.Forbidden(c, "You don't have access to this expense")
		return nil, false
	}
	return &expense, true
}

// POST /api/expenses
func CreateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := settlement.Validate(req.Expense); err != nil {
		respondCalcError(c, err)
		return
	}

	// Parse expense date
	expenseDate := time.Now()
	if req.ExpenseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpenseDate)
		if err != nil {
			utils.BadRequest(c, "expense_date must be YYYY-MM-DD")
			return
		}
		expenseDate = parsed
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "INR"
	}

	expense := models.Expense{
		OwnerID:     userID,
		Title:       strings.TrimSpace(req.Title),
		Currency:    currency,
		Notes:       req.Notes,
		ExpenseDate: expenseDate,
	}
	expense.SetPayload(req.Expense)

	if err := database.DB.Omit("Owner").Create(&expense).Error; err != nil {
		utils.InternalError(c, "Failed to create expense")
		return
	}

	logActivity(expense.ID, userID, models.ActivityExpenseAdded, expense.ID,
		fmt.Sprintf("%s added \"%s\" (%s %.2f)", currentUserName(userID), expense.Title, expense.Currency, expense.Total))

	utils.SuccessResponse(c, http.StatusCreated, "Expense added", expense.ToResponse())
}

// GET /api/expenses
func ListExpenses(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)
	pagination.Normalize()

	query := database.DB.Where("owner_id = ?", userID)
	if participant := strings.TrimSpace(c.Query("participant")); participant != "" {
		query = query.Where("? = ANY(participant_names)", participant)
	}

	var expenses []models.Expense
	if err := query.
		Order("expense_date DESC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&expenses).Error; err != nil {
		utils.InternalError(c, "Failed to load expenses")
		return
	}

	responses := make([]models.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, expenses[i].ToResponse())
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/expenses/:id
func GetExpense(c *gin.Context) {
	expense, ok := loadOwnedExpense(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", expense.ToResponse())
}

// PUT /api/expenses/:id
func UpdateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expense, ok := loadOwnedExpense(c)
	if !ok {
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.Title != "" {
		expense.Title = strings.TrimSpace(req.Title)
	}
	if req.Currency != "" {
		expense.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	}
	if req.Notes != "" {
		expense.Notes = req.Notes
	}

	payloadChanged := req.Expense != nil
	if payloadChanged {
		if err := settlement.Validate(*req.Expense); err != nil {
			respondCalcError(c, err)
			return
		}
		expense.SetPayload(*req.Expense)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Owner").Save(expense).Error; err != nil {
			return err
		}
		// Pending transfers were planned for the old content.
		if payloadChanged {
			return tx.Where("expense_id = ? AND status = ?", expense.ID, models.SettlementPending).
				Delete(&models.Settlement{}).Error
		}
		return nil
	})
	if err != nil {
		utils.InternalError(c, "Failed to update expense")
		return
	}

	logActivity(expense.ID, userID, models.ActivityExpenseUpdated, expense.ID,
		fmt.Sprintf("%s updated \"%s\"", currentUserName(userID), expense.Title))

	utils.SuccessResponse(c, http.StatusOK, "Expense updated", expense.ToResponse())
}

// DELETE /api/expenses/:id
func DeleteExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expense, ok := loadOwnedExpense(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.Settlement{}).Error; err != nil {
			return err
		}
		return tx.Delete(expense).Error
	})
	if err != nil {
		utils.InternalError(c, "Failed to delete expense")
		return
	}

	logActivity(expense.ID, userID, models.ActivityExpenseDeleted, expense.ID,
		fmt.Sprintf("%s deleted \"%s\"", currentUserName(userID), expense.Title))

	utils.SuccessResponse(c, http.StatusOK, "Expense deleted", nil)
}

// GET /api/expenses/:id/plan?strategy=
func GetExpensePlan(c *gin.Context) {
	expense, ok := loadOwnedExpense(c)
	if !ok {
		return
	}

	strategy, err := resolveStrategy(c.Query("strategy"))
	if err != nil {
		respondCalcError(c, err)
		return
	}

	result, cached, err := services.GetPlanCache().Calculate(c.Request.Context(), expense.Payload(), strategy)
	if err != nil {
		respondCalcError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ExpensePlanResponse{
		PlanResponse: newPlanResponse(result, strategy),
		ExpenseID:    expense.ID,
		Cached:       cached,
	})
}
