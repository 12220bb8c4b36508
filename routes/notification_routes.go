package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/controllers"
	"github.com/leadrake/leadrake_backend/middleware"
)

// RegisterNotificationRoutes sets up notification inbox routes
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Database) {
	notificationController := controllers.NewNotificationController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/notifications", notificationController.ListMyNotifications)
	r.GET("/notifications/unread-count", notificationController.UnreadCount)
	r.PUT("/notifications/:id/read", notificationController.MarkRead)
	r.PUT("/notifications/read-all", notificationController.MarkAllRead)
	r.PUT("/users/fcm-token", notificationController.UpdateFCMToken)
}
