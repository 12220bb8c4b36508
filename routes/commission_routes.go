package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/controllers"
	"github.com/leadrake/leadrake_backend/middleware"
)

// RegisterCommissionRoutes sets up commission query and preview routes.
// Marking a commission paid is an admin operation and lives under /api/admin.
func RegisterCommissionRoutes(e *echo.Echo, db *mongo.Database) {
	commissionController := controllers.NewCommissionController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.POST("/commissions/preview", commissionController.Preview)
	r.GET("/commissions/mine", commissionController.ListMyCommissions)
	r.GET("/workspaces/:id/commissions", commissionController.ListWorkspaceCommissions)
}
