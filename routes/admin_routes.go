package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/controllers"
	"github.com/leadrake/leadrake_backend/middleware"
	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/repositories"
)

// RegisterAdminRoutes sets up the admin console routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Database, profiles *repositories.SDRProfileRepository) {
	adminController := controllers.NewAdminController(db, profiles)
	commissionController := controllers.NewCommissionController(db)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType(models.UserTypeAdmin))

	admin.GET("/users", adminController.ListUsers)
	admin.PUT("/users/:id/role", adminController.AssignRole)
	admin.POST("/sdrs", adminController.CreateSDR)
	admin.POST("/sdrs/:id/recompute", adminController.RecomputeSDR)
	admin.PUT("/commissions/:id/pay", commissionController.MarkPaid)
}
