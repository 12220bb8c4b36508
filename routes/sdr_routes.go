package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/controllers"
	"github.com/leadrake/leadrake_backend/middleware"
)

// RegisterSDRRoutes sets up SDR profile and leaderboard routes
func RegisterSDRRoutes(e *echo.Echo, db *mongo.Database, redisClient *redis.Client) {
	sdrController := controllers.NewSDRController(db, redisClient)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/sdrs/me", sdrController.GetMyProfile)
	r.GET("/workspaces/:id/leaderboard", sdrController.Leaderboard)
}
