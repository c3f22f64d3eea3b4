package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"lifevault/internal/auth"
	"lifevault/internal/database"
	"lifevault/internal/handlers"
	"lifevault/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// This is our main function - the entry point of our application
func main() {
	// Load .env in development; production sets real environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Wire shared services
	handlers.InitServices()

	// Start the registration expiry worker
	services.NewExpiryWorker().Start()

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// CORS for browser clients
	allowedOrigins := []string{"http://localhost:3000"}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Auth routes (no auth required)
	router.POST("/api/v1/auth/register", handlers.Register)
	router.POST("/api/v1/auth/login", handlers.Login)

	// Protected routes (auth required)
	api := router.Group("/api/v1")
	api.Use(auth.AuthMiddleware())
	{
		api.GET("/auth/me", handlers.GetCurrentUser)

		// Family member profiles
		api.GET("/profiles", handlers.ListProfiles)
		api.POST("/profiles", handlers.CreateProfile)
		api.GET("/profiles/:id", handlers.GetProfile)
		api.PUT("/profiles/:id", handlers.UpdateProfile)
		api.DELETE("/profiles/:id", handlers.DeleteProfile)

		// Vitals and illness episodes
		api.GET("/vitals", handlers.ListVitals)
		api.POST("/vitals", handlers.CreateVital)
		api.GET("/vitals/:id", handlers.GetVital)
		api.PUT("/vitals/:id", handlers.UpdateVital)
		api.DELETE("/vitals/:id", handlers.DeleteVital)
		api.GET("/illnesses", handlers.ListIllnesses)
		api.POST("/illnesses", handlers.CreateIllness)
		api.GET("/illnesses/:id", handlers.GetIllness)
		api.PUT("/illnesses/:id", handlers.UpdateIllness)
		api.DELETE("/illnesses/:id", handlers.DeleteIllness)

		// Medicine reminders and adherence logs
		api.GET("/medicine-reminders", handlers.ListMedicineReminders)
		api.POST("/medicine-reminders", handlers.CreateMedicineReminder)
		api.GET("/medicine-reminders/:id", handlers.GetMedicineReminder)
		api.PUT("/medicine-reminders/:id", handlers.UpdateMedicineReminder)
		api.DELETE("/medicine-reminders/:id", handlers.DeleteMedicineReminder)
		api.POST("/medicine-reminders/:id/logs", handlers.SetReminderLogStatus)

		// Medical records with file attachments
		api.GET("/medical-records", handlers.ListMedicalRecords)
		api.POST("/medical-records", handlers.CreateMedicalRecord)
		api.GET("/medical-records/:id", handlers.GetMedicalRecord)
		api.PUT("/medical-records/:id", handlers.UpdateMedicalRecord)
		api.DELETE("/medical-records/:id", handlers.DeleteMedicalRecord)

		// Vehicles, maintenance history and reminders
		api.GET("/vehicles", handlers.ListVehicles)
		api.POST("/vehicles", handlers.CreateVehicle)
		api.GET("/vehicles/:id", handlers.GetVehicle)
		api.PUT("/vehicles/:id", handlers.UpdateVehicle)
		api.DELETE("/vehicles/:id", handlers.DeleteVehicle)
		api.POST("/vehicles/:id/image", handlers.UploadVehicleImage)
		api.GET("/vehicles/:id/maintenance", handlers.ListMaintenanceRecords)
		api.POST("/vehicles/:id/maintenance", handlers.CreateMaintenanceRecord)
		api.GET("/vehicles/:id/maintenance/:recordId", handlers.GetMaintenanceRecord)
		api.DELETE("/vehicles/:id/maintenance/:recordId", handlers.DeleteMaintenanceRecord)
		api.GET("/vehicles/:id/reminders", handlers.ListVehicleReminders)
		api.POST("/vehicles/:id/reminders", handlers.CreateVehicleReminder)
		api.PUT("/vehicles/:id/reminders/:reminderId", handlers.UpdateVehicleReminder)
		api.PUT("/vehicles/:id/reminders/:reminderId/complete", handlers.CompleteVehicleReminder)
		api.DELETE("/vehicles/:id/reminders/:reminderId", handlers.DeleteVehicleReminder)

		// Expenses, categories and budgets
		api.GET("/expenses", handlers.ListExpenses)
		api.POST("/expenses", handlers.CreateExpense)
		api.PUT("/expenses/:id", handlers.UpdateExpense)
		api.DELETE("/expenses/:id", handlers.DeleteExpense)
		api.GET("/expense-categories", handlers.ListCategories)
		api.POST("/expense-categories", handlers.CreateCategory)
		api.PUT("/expense-categories/:id", handlers.UpdateCategory)
		api.DELETE("/expense-categories/:id", handlers.DeleteCategory)
		api.GET("/budgets", handlers.ListBudgets)
		api.POST("/budgets", handlers.CreateBudget)
		api.PUT("/budgets/:id", handlers.UpdateBudget)
		api.DELETE("/budgets/:id", handlers.DeleteBudget)
		api.GET("/budgets/summary", handlers.GetBudgetSummary)

		// Goals, schedules and subscriptions
		api.GET("/goals", handlers.ListGoals)
		api.POST("/goals", handlers.CreateGoal)
		api.PUT("/goals/:id", handlers.UpdateGoal)
		api.POST("/goals/:id/contribute", handlers.ContributeToGoal)
		api.DELETE("/goals/:id", handlers.DeleteGoal)
		api.GET("/expense-schedules", handlers.ListSchedules)
		api.POST("/expense-schedules", handlers.CreateSchedule)
		api.POST("/expense-schedules/:id/pay", handlers.PaySchedule)
		api.DELETE("/expense-schedules/:id", handlers.DeleteSchedule)
		api.GET("/subscriptions", handlers.ListSubscriptions)
		api.POST("/subscriptions", handlers.CreateSubscription)
		api.PUT("/subscriptions/:id", handlers.UpdateSubscription)
		api.POST("/subscriptions/:id/pay", handlers.PaySubscription)
		api.POST("/subscriptions/:id/cancel", handlers.CancelSubscription)
		api.DELETE("/subscriptions/:id", handlers.DeleteSubscription)

		// Money accounts and currencies
		api.GET("/accounts", handlers.ListAccounts)
		api.POST("/accounts", handlers.CreateAccount)
		api.PUT("/accounts/:id", handlers.UpdateAccount)
		api.POST("/accounts/:id/archive", handlers.ArchiveAccount)
		api.DELETE("/accounts/:id", handlers.DeleteAccount)
		api.GET("/currencies", handlers.ListCurrencies)
		api.POST("/currencies", handlers.CreateCurrency)
		api.PUT("/currencies/:id/default", handlers.SetDefaultCurrency)
		api.DELETE("/currencies/:id", handlers.DeleteCurrency)
	}

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
