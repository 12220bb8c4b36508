package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/controllers"
	"github.com/leadrake/leadrake_backend/middleware"
	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/repositories"
)

// RegisterJobRoutes sets up the job board routes
func RegisterJobRoutes(e *echo.Echo, db *mongo.Database, profiles *repositories.SDRProfileRepository) {
	jobController := controllers.NewJobController(db, profiles)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/jobs", jobController.ListOpenJobs)

	owner := r.Group("")
	owner.Use(middleware.RequireUserType(models.UserTypeAgencyOwner, models.UserTypeAdmin))
	owner.POST("/jobs", jobController.CreateJob)
	owner.GET("/jobs/:id/applications", jobController.ListApplicants)
	owner.PUT("/applications/:id/accept", jobController.AcceptApplication)

	sdr := r.Group("")
	sdr.Use(middleware.RequireUserType(models.UserTypeSDR))
	sdr.POST("/jobs/:id/apply", jobController.Apply)
	sdr.DELETE("/jobs/:id/apply", jobController.WithdrawApplication)
}
