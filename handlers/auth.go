package handlers

import (
	"log"
	"net/http"
	"settleup-backend/database"
	"settleup-backend/models"
	"settleup-backend/utils"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required,min=6"`
	Currency string `json:"currency"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// POST /auth/register
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	// Check if email already exists
	var existingUser models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "Email already registered")
		return
	}
	if req.Username != "" {
		if err := database.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
			utils.BadRequest(c, "Username already taken")
			return
		}
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.InternalError(c, "Failed to hash password")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Currency:     currency,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		utils.InternalError(c, "Failed to create user")
		return
	}

	log.Printf("✅ Registered user %s", user.ID)

	respondWithToken(c, http.StatusCreated, "Registration successful", user)
}

// POST /auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	respondWithToken(c, http.StatusOK, "Login successful", user)
}

func respondWithToken(c *gin.Context, status int, message string, user models.User) {
	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	utils.SuccessResponse(c, status, message, AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	})
}
