package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/controllers"
	"github.com/leadrake/leadrake_backend/middleware"
	"github.com/leadrake/leadrake_backend/models"
)

// RegisterWorkspaceRoutes sets up workspace management routes
func RegisterWorkspaceRoutes(e *echo.Echo, db *mongo.Database) {
	workspaceController := controllers.NewWorkspaceController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/workspaces", workspaceController.ListMyWorkspaces)
	r.GET("/workspaces/:id", workspaceController.GetWorkspace)
	r.GET("/workspaces/:id/members", workspaceController.ListMembers)

	owner := r.Group("")
	owner.Use(middleware.RequireUserType(models.UserTypeAgencyOwner, models.UserTypeAdmin))
	owner.POST("/workspaces", workspaceController.CreateWorkspace)
	owner.PUT("/workspaces/:id/rake", workspaceController.UpdateRake)
}
