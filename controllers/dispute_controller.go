package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/repositories"
	"github.com/leadrake/leadrake_backend/utils"
)

type DisputeController struct {
	db            *mongo.Database
	commissions   *repositories.CommissionRepository
	workspaces    *repositories.WorkspaceRepository
	notifications *repositories.NotificationRepository
}

func NewDisputeController(db *mongo.Database) *DisputeController {
	return &DisputeController{
		db:            db,
		commissions:   repositories.NewCommissionRepository(db),
		workspaces:    repositories.NewWorkspaceRepository(db),
		notifications: repositories.NewNotificationRepository(db),
	}
}

// CreateDisputeRequest represents the request body for opening a dispute
type CreateDisputeRequest struct {
	CommissionID string `json:"commissionId" validate:"required"`
	Reason       string `json:"reason" validate:"required"`
}

// ResolveDisputeRequest represents the request body for resolving a dispute
type ResolveDisputeRequest struct {
	Resolution string `json:"resolution" validate:"required"`
}

// CreateDispute opens a dispute against a commission. Only the SDR on the
// commission or the workspace owner can open one.
func (dc *DisputeController) CreateDispute(c echo.Context) error {
	var req CreateDisputeRequest
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

	commissionID, err := primitive.ObjectIDFromHex(req.CommissionID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
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

	commission, err := dc.commissions.FindByID(ctx, commissionID)
	if err != nil {
		log.Printf("Error finding commission: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if commission == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Commission not found",
		})
	}

	workspace, err := dc.workspaces.FindByID(ctx, commission.WorkspaceID)
	if err != nil || workspace == nil {
		log.Printf("Error finding workspace for dispute: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if userID != commission.SDRID && userID != workspace.OwnerID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only the SDR or the workspace owner can dispute this commission",
		})
	}

	caseRef := "DSP-" + strings.ToUpper(uuid.NewString()[:8])
	dispute := models.Dispute{
		ID:           primitive.NewObjectID(),
		CaseRef:      caseRef,
		WorkspaceID:  commission.WorkspaceID,
		CommissionID: commission.ID,
		RaisedBy:     userID,
		Reason:       req.Reason,
		Status:       models.DisputeStatusOpen,
		CreatedAt:    time.Now(),
	}

	if _, err := dc.db.Collection("disputes").InsertOne(ctx, dispute); err != nil {
		log.Printf("Error creating dispute: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create dispute",
		})
	}

	// Notify the counterparty; failures must not undo the dispute.
	counterparty := commission.SDRID
	if userID == commission.SDRID {
		counterparty = workspace.OwnerID
	}
	err = dc.notifications.Send(ctx, counterparty, workspace.ID,
		models.NotificationDisputeCreated, "Dispute opened",
		"Dispute "+caseRef+" was opened against a commission in "+workspace.Name+".",
		map[string]interface{}{
			"caseRef":      caseRef,
			"disputeId":    dispute.ID.Hex(),
			"commissionId": commission.ID.Hex(),
		})
	if err != nil {
		log.Printf("Failed to notify counterparty of dispute %s: %v", caseRef, err)
	}
	dc.notifyAdmins(ctx, workspace.ID, caseRef, dispute.ID, commission.ID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Dispute created successfully",
		Data:    dispute,
	})
}

// ListWorkspaceDisputes returns disputes of a workspace
func (dc *DisputeController) ListWorkspaceDisputes(c echo.Context) error {
	workspaceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid workspace ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := dc.db.Collection("disputes").Find(ctx,
		bson.M{"workspaceId": workspaceID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		log.Printf("Error listing disputes: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	var disputes []models.Dispute
	if err := cursor.All(ctx, &disputes); err != nil {
		log.Printf("Error decoding disputes: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Disputes retrieved successfully",
		Data:    disputes,
	})
}

// ListOpenDisputes returns all open disputes (admin only)
func (dc *DisputeController) ListOpenDisputes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := dc.db.Collection("disputes").Find(ctx,
		bson.M{"status": models.DisputeStatusOpen},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		log.Printf("Error listing open disputes: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	var disputes []models.Dispute
	if err := cursor.All(ctx, &disputes); err != nil {
		log.Printf("Error decoding disputes: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Open disputes retrieved successfully",
		Data:    disputes,
	})
}

// ResolveDispute closes an open dispute with a resolution note (admin only).
// Both parties are notified best-effort.
func (dc *DisputeController) ResolveDispute(c echo.Context) error {
	disputeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid dispute ID",
		})
	}

	var req ResolveDisputeRequest
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

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	var dispute models.Dispute
	err = dc.db.Collection("disputes").FindOneAndUpdate(ctx,
		bson.M{"_id": disputeID, "status": models.DisputeStatusOpen},
		bson.M{"$set": bson.M{
			"status":     models.DisputeStatusResolved,
			"resolution": req.Resolution,
			"resolvedBy": adminID,
			"resolvedAt": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&dispute)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Open dispute not found",
			})
		}
		log.Printf("Error resolving dispute: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to resolve dispute",
		})
	}

	commission, err := dc.commissions.FindByID(ctx, dispute.CommissionID)
	if err == nil && commission != nil {
		workspace, werr := dc.workspaces.FindByID(ctx, dispute.WorkspaceID)
		if werr == nil && workspace != nil {
			msg := "Dispute " + dispute.CaseRef + " was resolved: " + req.Resolution
			for _, recipient := range []primitive.ObjectID{commission.SDRID, workspace.OwnerID} {
				err = dc.notifications.Send(ctx, recipient, workspace.ID,
					models.NotificationDisputeResolved, "Dispute resolved", msg,
					map[string]interface{}{
						"caseRef":   dispute.CaseRef,
						"disputeId": dispute.ID.Hex(),
					})
				if err != nil {
					log.Printf("Failed to notify %s of resolved dispute %s: %v", recipient.Hex(), dispute.CaseRef, err)
				}
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dispute resolved successfully",
		Data:    dispute,
	})
}

// notifyAdmins fans the dispute_created notification out to platform admins.
func (dc *DisputeController) notifyAdmins(ctx context.Context, workspaceID primitive.ObjectID, caseRef string, disputeID, commissionID primitive.ObjectID) {
	cursor, err := dc.db.Collection("users").Find(ctx, bson.M{"userType": models.UserTypeAdmin})
	if err != nil {
		log.Printf("Failed to load admins for dispute %s: %v", caseRef, err)
		return
	}
	var admins []models.User
	if err := cursor.All(ctx, &admins); err != nil {
		log.Printf("Failed to decode admins for dispute %s: %v", caseRef, err)
		return
	}
	for _, admin := range admins {
		err := dc.notifications.Send(ctx, admin.ID, workspaceID,
			models.NotificationDisputeCreated, "Dispute opened",
			"Dispute "+caseRef+" requires review.",
			map[string]interface{}{
				"caseRef":      caseRef,
				"disputeId":    disputeID.Hex(),
				"commissionId": commissionID.Hex(),
			})
		if err != nil {
			log.Printf("Failed to notify admin %s of dispute %s: %v", admin.ID.Hex(), caseRef, err)
		}
	}
}
