package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/controllers"
	"github.com/leadrake/leadrake_backend/middleware"
	"github.com/leadrake/leadrake_backend/models"
)

// RegisterDisputeRoutes sets up commission dispute routes
func RegisterDisputeRoutes(e *echo.Echo, db *mongo.Database) {
	disputeController := controllers.NewDisputeController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.POST("/disputes", disputeController.CreateDispute)
	r.GET("/workspaces/:id/disputes", disputeController.ListWorkspaceDisputes)

	admin := r.Group("/admin")
	admin.Use(middleware.RequireUserType(models.UserTypeAdmin))
	admin.GET("/disputes/open", disputeController.ListOpenDisputes)
	admin.PUT("/disputes/:id/resolve", disputeController.ResolveDispute)
}
