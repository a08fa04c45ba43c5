package handlers

import (
	"log"
	"net/http"
	"settleup-backend/database"
	"settleup-backend/models"
	"settleup-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func logActivity(expenseID, userID uuid.UUID, activityType string, referenceID uuid.UUID, description string) {
	activity := models.Activity{
		ExpenseID:   expenseID,
		UserID:      userID,
		Type:        activityType,
		ReferenceID: referenceID,
		Description: description,
	}
	if err := database.DB.Create(&activity).Error; err != nil {
		log.Printf("❌ Failed to log %s activity: %v", activityType, err)
	}
}

func currentUserName(userID uuid.UUID) string {
	var user models.User
	if err := database.DB.Select("name").First(&user, "id = ?", userID).Error; err != nil {
		return "Someone"
	}
	return user.Name
}

// GET /api/activity, activity on the current user's expenses
func GetActivity(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)
	pagination.Normalize()

	owned := database.DB.Model(&models.Expense{}).Select("id").Where("owner_id = ?", userID)

	var activities []models.Activity
	if err := database.DB.Where("user_id = ? OR expense_id IN (?)", userID, owned).
		Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities).Error; err != nil {
		utils.InternalError(c, "Failed to load activity")
		return
	}

	// Attach expense titles; deleted expenses keep their description only.
	expenseIDs := make([]uuid.UUID, 0, len(activities))
	for _, a := range activities {
		expenseIDs = append(expenseIDs, a.ExpenseID)
	}
	if len(expenseIDs) > 0 {
		var expenses []models.Expense
		database.DB.Select("id", "title").Where("id IN ?", expenseIDs).Find(&expenses)
		titles := make(map[uuid.UUID]string, len(expenses))
		for _, e := range expenses {
			titles[e.ID] = e.Title
		}
		for i := range activities {
			activities[i].ExpenseTitle = titles[activities[i].ExpenseID]
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
