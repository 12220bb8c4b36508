package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/controllers"
	"github.com/leadrake/leadrake_backend/middleware"
	"github.com/leadrake/leadrake_backend/models"
)

// RegisterLeadRoutes sets up lead and cold-call routes
func RegisterLeadRoutes(e *echo.Echo, db *mongo.Database) {
	leadController := controllers.NewLeadController(db)
	callLogController := controllers.NewCallLogController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/workspaces/:id/leads", leadController.ListWorkspaceLeads)
	r.GET("/leads/:id/calls", callLogController.ListLeadCalls)

	sdr := r.Group("")
	sdr.Use(middleware.RequireUserType(models.UserTypeSDR, models.UserTypeAgencyOwner, models.UserTypeAdmin))
	sdr.POST("/leads", leadController.CreateLead)
	sdr.PUT("/leads/:id/status", leadController.UpdateLeadStatus)
	sdr.POST("/leads/:id/convert", leadController.ConvertLead)
	sdr.POST("/calls", callLogController.LogCall)
}
