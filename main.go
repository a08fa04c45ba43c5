package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"settleup-backend/config"
	"settleup-backend/database"
	"settleup-backend/handlers"
	"settleup-backend/middleware"
	"settleup-backend/services"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("❌ ", err)
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatal("❌ ", err)
	}

	// Optional infrastructure, each degrades to a no-op
	database.ConnectRedis()
	services.InitPlanCache(database.Redis, config.AppConfig.PlanCacheTTL)
	services.InitNotificationService(context.Background())
	services.InitEventPublisher()
	defer services.GetEventPublisher().Close()

	r := setupRouter()

	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 %s server starting on %s", config.AppConfig.AppName, srv.Addr)
		log.Printf("📡 Health check: %s/health", config.AppConfig.AppURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("⚠️  Forced shutdown:", err)
	}
}

func setupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// User
		api.GET("/users/me", handlers.GetProfile)
		api.PUT("/users/me", handlers.UpdateProfile)
		api.PUT("/users/me/fcm-token", handlers.UpdateFCMToken)
		api.POST("/users/search", handlers.SearchUsers)

		// Stateless calculation
		api.POST("/settlements/calculate", handlers.CalculateSettlements)
		api.POST("/settlements/summary", handlers.SummarizeSettlements)
		api.POST("/settlements/compare", handlers.CompareStrategies)
		api.POST("/settlements/batch", handlers.CalculateBatch)
		api.POST("/expenses/validate", handlers.ValidateExpense)

		// Expenses
		api.POST("/expenses", handlers.CreateExpense)
		api.GET("/expenses", handlers.ListExpenses)
		api.GET("/expenses/:id", handlers.GetExpense)
		api.PUT("/expenses/:id", handlers.UpdateExpense)
		api.DELETE("/expenses/:id", handlers.DeleteExpense)
		api.GET("/expenses/:id/plan", handlers.GetExpensePlan)

		// Settlements
		api.POST("/expenses/:id/settlements", handlers.ConfirmSettlements)
		api.GET("/expenses/:id/settlements", handlers.GetExpenseSettlements)
		api.PUT("/settlements/:id/paid", handlers.MarkSettlementPaid)

		// Activity
		api.GET("/activity", handlers.GetActivity)
	}

	return r
}
