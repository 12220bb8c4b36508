package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/go-redis/redis/v8"

	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/repositories"
	"github.com/leadrake/leadrake_backend/utils"
)

type SDRController struct {
	db         *mongo.Database
	profiles   *repositories.SDRProfileRepository
	workspaces *repositories.WorkspaceRepository
}

func NewSDRController(db *mongo.Database, redisClient *redis.Client) *SDRController {
	return &SDRController{
		db:         db,
		profiles:   repositories.NewSDRProfileRepository(db, redisClient),
		workspaces: repositories.NewWorkspaceRepository(db),
	}
}

// GetMyProfile returns the calling SDR's profile with the level readout
// (level, progress percent, remaining value to the next threshold).
func (sc *SDRController) GetMyProfile(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, sc.db)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}
	userID := user.ID

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := sc.profiles.FindByUserID(ctx, userID)
	if err != nil {
		log.Printf("Error finding SDR profile: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	// No profile row yet means level 1 with nothing closed.
	cumulative := 0.0
	if profile != nil {
		cumulative = profile.TotalClosedValue
	}

	progress, err := utils.LevelFor(cumulative)
	if err != nil {
		log.Printf("Error computing level for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute level progress",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data: map[string]interface{}{
			"user":     user,
			"profile":  profile,
			"progress": progress,
		},
	})
}

// Leaderboard returns a workspace's SDRs ranked by cumulative closed value
func (sc *SDRController) Leaderboard(c echo.Context) error {
	workspaceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid workspace ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	workspace, err := sc.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		log.Printf("Error finding workspace: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if workspace == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Workspace not found",
		})
	}

	leaderboard, err := sc.profiles.Leaderboard(ctx, workspaceID, 20)
	if err != nil {
		log.Printf("Error building leaderboard: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build leaderboard",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Leaderboard retrieved successfully",
		Data:    leaderboard,
	})
}
