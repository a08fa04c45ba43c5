package handlers

import (
	"net/http"
	"settleup-backend/database"
	"settleup-backend/models"
	"settleup-backend/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

type UpdateProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Currency  string `json:"currency"`
}

type UpdateFCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type SearchUsersRequest struct {
	Query string `json:"query" binding:"required,min=2"`
}

func loadCurrentUser(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", utils.GetCurrentUserID(c)).Error; err != nil {
		utils.NotFound(c, "User not found")
		return nil, false
	}
	return &user, true
}

// GET /api/users/me
func GetProfile(c *gin.Context) {
	user, ok := loadCurrentUser(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", user.ToResponse())
}

// PUT /api/users/me
func UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, ok := loadCurrentUser(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if username := strings.ToLower(strings.TrimSpace(req.Username)); username != "" && username != user.Username {
		var taken int64
		database.DB.Model(&models.User{}).Where("username = ? AND id <> ?", username, user.ID).Count(&taken)
		if taken > 0 {
			utils.BadRequest(c, "Username already taken")
			return
		}
		updates["username"] = username
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}
	if req.Currency != "" {
		updates["currency"] = strings.ToUpper(req.Currency)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(user).Updates(updates).Error; err != nil {
			utils.InternalError(c, "Failed to update profile")
			return
		}
		database.DB.First(user, "id = ?", user.ID)
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated", user.ToResponse())
}

// PUT /api/users/me/fcm-token
func UpdateFCMToken(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", req.Token).Error; err != nil {
		utils.InternalError(c, "Failed to update FCM token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "FCM token updated", nil)
}

// POST /api/users/search, used by the app to attach usernames to participants
func SearchUsers(c *gin.Context) {
	var req SearchUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	pattern := "%" + strings.TrimSpace(req.Query) + "%"
	var users []models.User
	database.DB.Where("email ILIKE ? OR name ILIKE ? OR username ILIKE ?", pattern, pattern, pattern).
		Limit(20).
		Find(&users)

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}
