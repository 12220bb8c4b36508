package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/controllers"
	"github.com/leadrake/leadrake_backend/middleware"
	"github.com/leadrake/leadrake_backend/services"
)

// RegisterDealRoutes sets up the deal pipeline routes
func RegisterDealRoutes(e *echo.Echo, db *mongo.Database, commissions *services.CommissionService) {
	dealController := controllers.NewDealController(db, commissions)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.POST("/deals", dealController.CreateDeal)
	r.GET("/deals/:id", dealController.GetDeal)
	r.GET("/deals/mine", dealController.ListMyDeals)
	r.PUT("/deals/:id/stage", dealController.UpdateStage)
	r.DELETE("/deals/:id", dealController.DeleteDeal)
	r.GET("/workspaces/:id/deals", dealController.ListWorkspaceDeals)
}
