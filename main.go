package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/leadrake/leadrake_backend/config"
	"github.com/leadrake/leadrake_backend/middleware"
	"github.com/leadrake/leadrake_backend/repositories"
	"github.com/leadrake/leadrake_backend/routes"
	"github.com/leadrake/leadrake_backend/services"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase
	config.InitFirebase()

	// Connect to Redis
	redisClient := config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Leadrake Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories
	dealRepo := repositories.NewDealRepository(db)
	workspaceRepo := repositories.NewWorkspaceRepository(db)
	profileRepo := repositories.NewSDRProfileRepository(db, redisClient)
	commissionRepo := repositories.NewCommissionRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Commission pipeline
	commissionService := services.NewCommissionService(
		dealRepo,
		workspaceRepo,
		profileRepo,
		commissionRepo,
		notificationRepo,
	)

	// Register routes
	routes.RegisterDealRoutes(e, db, commissionService)
	routes.RegisterWorkspaceRoutes(e, db)
	routes.RegisterSDRRoutes(e, db, redisClient)
	routes.RegisterCommissionRoutes(e, db)
	routes.RegisterNotificationRoutes(e, db)
	routes.RegisterDisputeRoutes(e, db)
	routes.RegisterJobRoutes(e, db, profileRepo)
	routes.RegisterLeadRoutes(e, db)
	routes.RegisterAdminRoutes(e, db, profileRepo)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
