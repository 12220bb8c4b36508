package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/repositories"
	"github.com/leadrake/leadrake_backend/services"
	"github.com/leadrake/leadrake_backend/utils"
)

type DealController struct {
	deals       *repositories.DealRepository
	workspaces  *repositories.WorkspaceRepository
	commissions *services.CommissionService
}

func NewDealController(db *mongo.Database, commissions *services.CommissionService) *DealController {
	return &DealController{
		deals:       repositories.NewDealRepository(db),
		workspaces:  repositories.NewWorkspaceRepository(db),
		commissions: commissions,
	}
}

// CreateDealRequest represents the request body for creating a deal
type CreateDealRequest struct {
	WorkspaceID string  `json:"workspaceId" validate:"required"`
	AssignedTo  string  `json:"assignedTo" validate:"required"`
	LeadID      string  `json:"leadId,omitempty"`
	Title       string  `json:"title" validate:"required"`
	Company     string  `json:"company,omitempty"`
	Value       float64 `json:"value"`
}

// UpdateStageRequest represents the request body for a pipeline stage change
type UpdateStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// CreateDeal creates a deal in a workspace the caller owns or works in
func (dc *DealController) CreateDeal(c echo.Context) error {
	var req CreateDealRequest
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
	if req.Value < 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Deal value must be non-negative",
		})
	}

	workspaceID, err := primitive.ObjectIDFromHex(req.WorkspaceID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid workspace ID",
		})
	}
	assignedTo, err := primitive.ObjectIDFromHex(req.AssignedTo)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid assignee ID",
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

	workspace, err := dc.workspaces.FindByID(ctx, workspaceID)
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
	if workspace.OwnerID != userID && !workspace.HasMember(userID) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You are not a member of this workspace",
		})
	}

	deal := &models.Deal{
		WorkspaceID: workspaceID,
		AssignedTo:  assignedTo,
		Title:       req.Title,
		Company:     req.Company,
		Value:       req.Value,
		Stage:       models.StageNew,
		CreatedBy:   userID,
	}
	if req.LeadID != "" {
		leadID, err := primitive.ObjectIDFromHex(req.LeadID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid lead ID",
			})
		}
		deal.LeadID = leadID
	}

	if err := dc.deals.Create(ctx, deal); err != nil {
		log.Printf("Error creating deal: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create deal",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Deal created successfully",
		Data:    deal,
	})
}

// GetDeal returns one deal by ID
func (dc *DealController) GetDeal(c echo.Context) error {
	dealID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deal, err := dc.deals.FindByID(ctx, dealID)
	if err != nil {
		log.Printf("Error finding deal: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if deal == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Deal not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deal retrieved successfully",
		Data:    deal,
	})
}

// ListWorkspaceDeals returns all deals of a workspace
func (dc *DealController) ListWorkspaceDeals(c echo.Context) error {
	workspaceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid workspace ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deals, err := dc.deals.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		log.Printf("Error listing deals: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deals retrieved successfully",
		Data:    deals,
	})
}

// ListMyDeals returns the deals assigned to the calling SDR
func (dc *DealController) ListMyDeals(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deals, err := dc.deals.ListByAssignee(ctx, userID)
	if err != nil {
		log.Printf("Error listing deals: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deals retrieved successfully",
		Data:    deals,
	})
}

// UpdateStage moves a deal through the pipeline. Setting the stage to
// closed_won triggers commission creation; the evaluator tolerates duplicate
// triggers, so re-sending the same transition is safe and reports a skipped
// outcome instead of a second commission.
func (dc *DealController) UpdateStage(c echo.Context) error {
	dealID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal ID",
		})
	}

	var req UpdateStageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if !models.IsValidStage(req.Stage) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown pipeline stage: " + req.Stage,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	deal, err := dc.deals.FindByID(ctx, dealID)
	if err != nil {
		log.Printf("Error finding deal: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if deal == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Deal not found",
		})
	}

	// A terminal deal accepts only a re-send of its own stage (duplicate
	// trigger); anything else is a rejected re-open.
	if models.IsTerminalStage(deal.Stage) && deal.Stage != req.Stage {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Deal is already in a terminal stage",
		})
	}

	if deal.Stage != req.Stage {
		deal, err = dc.deals.UpdateStage(ctx, dealID, req.Stage)
		if err != nil {
			log.Printf("Error updating deal stage: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to update deal stage",
			})
		}
		if deal == nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Deal not found",
			})
		}
	}

	if req.Stage != models.StageClosedWon {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Deal stage updated successfully",
			Data:    deal,
		})
	}

	outcome, err := dc.commissions.OnDealWon(ctx, dealID)
	if err != nil {
		// The stage update stands; the commission failure is surfaced so the
		// owner can retry the transition.
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: err.Error(),
			})
		case errors.Is(err, utils.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		default:
			log.Printf("Commission creation failed for deal %s: %v", dealID.Hex(), err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Deal closed but commission creation failed; retry the transition",
			})
		}
	}

	message := "Deal closed and commission created"
	if !outcome.Created {
		message = "Deal stage updated; commission skipped (" + outcome.SkipReason + ")"
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data: map[string]interface{}{
			"deal":    deal,
			"outcome": outcome,
		},
	})
}

// DeleteDeal removes a deal. Terminal deals are kept for commission history.
func (dc *DealController) DeleteDeal(c echo.Context) error {
	dealID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deal, err := dc.deals.FindByID(ctx, dealID)
	if err != nil {
		log.Printf("Error finding deal: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if deal == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Deal not found",
		})
	}
	if models.IsTerminalStage(deal.Stage) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Closed deals cannot be deleted",
		})
	}

	if err := dc.deals.Delete(ctx, dealID); err != nil {
		log.Printf("Error deleting deal: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete deal",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deal deleted successfully",
	})
}
