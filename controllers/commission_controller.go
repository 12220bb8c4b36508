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
	"github.com/leadrake/leadrake_backend/utils"
)

type CommissionController struct {
	commissions *repositories.CommissionRepository
	workspaces  *repositories.WorkspaceRepository
}

func NewCommissionController(db *mongo.Database) *CommissionController {
	return &CommissionController{
		commissions: repositories.NewCommissionRepository(db),
		workspaces:  repositories.NewWorkspaceRepository(db),
	}
}

// PreviewRequest represents the request body for a speculative commission split
type PreviewRequest struct {
	DealValue   float64 `json:"dealValue"`
	RakePercent float64 `json:"rakePercent"`
	SDRLevel    int     `json:"sdrLevel" validate:"required"`
}

// Preview computes a commission split without creating any record. Used by
// the deal form to show the breakdown before a deal closes.
func (cc *CommissionController) Preview(c echo.Context) error {
	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	level, err := utils.ParseLevel(req.SDRLevel)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	breakdown, err := utils.ComputeCommission(req.DealValue, req.RakePercent, level)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute commission",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission preview computed",
		Data:    breakdown,
	})
}

// ListWorkspaceCommissions returns commissions of a workspace (owner only)
func (cc *CommissionController) ListWorkspaceCommissions(c echo.Context) error {
	workspaceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid workspace ID",
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

	workspace, err := cc.workspaces.FindByID(ctx, workspaceID)
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
	if workspace.OwnerID != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only the workspace owner can view its commissions",
		})
	}

	commissions, err := cc.commissions.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		log.Printf("Error listing commissions: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commissions retrieved successfully",
		Data:    commissions,
	})
}

// ListMyCommissions returns the calling SDR's commissions
func (cc *CommissionController) ListMyCommissions(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	commissions, err := cc.commissions.ListBySDR(ctx, userID)
	if err != nil {
		log.Printf("Error listing commissions: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commissions retrieved successfully",
		Data:    commissions,
	})
}

// MarkPaid transitions a commission from pending to paid (admin only).
// Idempotent: marking an already-paid commission reports success without a
// second transition.
func (cc *CommissionController) MarkPaid(c echo.Context) error {
	commissionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	commission, alreadyPaid, err := cc.commissions.MarkPaid(ctx, commissionID, adminID)
	if err != nil {
		log.Printf("Error marking commission paid: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to mark commission as paid",
		})
	}
	if commission == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Commission not found",
		})
	}

	message := "Commission marked as paid"
	if alreadyPaid {
		message = "Commission was already paid"
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    commission,
	})
}
