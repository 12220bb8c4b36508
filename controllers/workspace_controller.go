package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/middleware"
	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/repositories"
	"github.com/leadrake/leadrake_backend/utils"
)

type WorkspaceController struct {
	db         *mongo.Database
	workspaces *repositories.WorkspaceRepository
}

func NewWorkspaceController(db *mongo.Database) *WorkspaceController {
	return &WorkspaceController{
		db:         db,
		workspaces: repositories.NewWorkspaceRepository(db),
	}
}

// CreateWorkspaceRequest represents the request body for creating a workspace
type CreateWorkspaceRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	RakePercent float64 `json:"rakePercent,omitempty"`
}

// UpdateRakeRequest represents the request body for changing the rake percentage
type UpdateRakeRequest struct {
	RakePercent float64 `json:"rakePercent"`
}

// CreateWorkspace creates an agency workspace owned by the caller
func (wc *WorkspaceController) CreateWorkspace(c echo.Context) error {
	var req CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
	}
	if req.RakePercent < 0 || req.RakePercent > 100 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Rake percentage must be between 0 and 100",
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	workspace := &models.Workspace{
		OwnerID:            userID,
		Name:               req.Name,
		Description:        req.Description,
		RakePercent:        req.RakePercent,
		SubscriptionStatus: "trial",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := wc.workspaces.Create(ctx, workspace); err != nil {
		log.Printf("Error creating workspace: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create workspace",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Workspace created successfully",
		Data:    workspace,
	})
}

// GetWorkspace returns one workspace by ID
func (wc *WorkspaceController) GetWorkspace(c echo.Context) error {
	workspaceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid workspace ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	workspace, err := wc.workspaces.FindByID(ctx, workspaceID)
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

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Workspace retrieved successfully",
		Data:    workspace,
	})
}

// ListMyWorkspaces returns workspaces the caller owns or works in
func (wc *WorkspaceController) ListMyWorkspaces(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var workspaces []models.Workspace
	if middleware.ExtractUserType(c) == models.UserTypeSDR {
		workspaces, err = wc.workspaces.ListForMember(ctx, userID)
	} else {
		workspaces, err = wc.workspaces.ListByOwner(ctx, userID)
	}
	if err != nil {
		log.Printf("Error listing workspaces: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Workspaces retrieved successfully",
		Data:    workspaces,
	})
}

// UpdateRake changes the workspace rake percentage. The new rake applies to
// deals closed from now on; existing commissions are never recalculated.
func (wc *WorkspaceController) UpdateRake(c echo.Context) error {
	workspaceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid workspace ID",
		})
	}

	var req UpdateRakeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.RakePercent < 0 || req.RakePercent > 100 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Rake percentage must be between 0 and 100",
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	workspace, err := wc.workspaces.FindByID(ctx, workspaceID)
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
	if workspace.OwnerID != userID && middleware.ExtractUserType(c) != models.UserTypeAdmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only the workspace owner can change the rake",
		})
	}

	if err := wc.workspaces.UpdateRake(ctx, workspaceID, req.RakePercent); err != nil {
		log.Printf("Error updating rake: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update rake percentage",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Rake percentage updated successfully",
	})
}

// ListMembers returns the SDR accounts working in a workspace
func (wc *WorkspaceController) ListMembers(c echo.Context) error {
	workspaceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid workspace ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	workspace, err := wc.workspaces.FindByID(ctx, workspaceID)
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

	members := []models.User{}
	if len(workspace.Members) > 0 {
		cursor, err := wc.db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": workspace.Members}})
		if err != nil {
			log.Printf("Error listing workspace members: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Database error",
			})
		}
		if err := cursor.All(ctx, &members); err != nil {
			log.Printf("Error decoding workspace members: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Database error",
			})
		}
		for i := range members {
			members[i].Password = ""
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Members retrieved successfully",
		Data:    members,
	})
}
