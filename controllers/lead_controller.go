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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadrake/leadrake_backend/models"
	"github.com/leadrake/leadrake_backend/repositories"
	"github.com/leadrake/leadrake_backend/utils"
)

type LeadController struct {
	db    *mongo.Database
	deals *repositories.DealRepository
}

func NewLeadController(db *mongo.Database) *LeadController {
	return &LeadController{
		db:    db,
		deals: repositories.NewDealRepository(db),
	}
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	WorkspaceID string `json:"workspaceId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Company     string `json:"company,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty"`
}

// ConvertLeadRequest represents the request body for converting a lead to a deal
type ConvertLeadRequest struct {
	Title string  `json:"title" validate:"required"`
	Value float64 `json:"value"`
}

// CreateLead creates a lead assigned to the calling SDR
func (lc *LeadController) CreateLead(c echo.Context) error {
	var req CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing or invalid fields",
		})
	}

	workspaceID, err := primitive.ObjectIDFromHex(req.WorkspaceID)
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

	now := time.Now()
	lead := models.Lead{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		AssignedTo:  userID,
		Name:        req.Name,
		Company:     req.Company,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      models.LeadStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := lc.db.Collection("leads").InsertOne(ctx, lead); err != nil {
		log.Printf("Error creating lead: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create lead",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Lead created successfully",
		Data:    lead,
	})
}

// ListWorkspaceLeads returns all leads of a workspace
func (lc *LeadController) ListWorkspaceLeads(c echo.Context) error {
	workspaceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid workspace ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := lc.db.Collection("leads").Find(ctx,
		bson.M{"workspaceId": workspaceID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		log.Printf("Error listing leads: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		log.Printf("Error decoding leads: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Leads retrieved successfully",
		Data:    leads,
	})
}

// UpdateLeadStatus moves a lead between working statuses. Converted leads
// are read-only; conversion happens through ConvertLead.
func (lc *LeadController) UpdateLeadStatus(c echo.Context) error {
	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid lead ID",
		})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	switch req.Status {
	case models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusQualified, models.LeadStatusDead:
	default:
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown lead status: " + req.Status,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := lc.db.Collection("leads").UpdateOne(ctx,
		bson.M{"_id": leadID, "status": bson.M{"$ne": models.LeadStatusConverted}},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Printf("Error updating lead status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update lead status",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Lead not found or already converted",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Lead status updated successfully",
	})
}

// ConvertLead turns a lead into a deal at the start of the pipeline.
// Idempotent: converting an already-converted lead returns the existing
// deal reference instead of creating a second one.
func (lc *LeadController) ConvertLead(c echo.Context) error {
	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid lead ID",
		})
	}

	var req ConvertLeadRequest
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

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var lead models.Lead
	err = lc.db.Collection("leads").FindOne(ctx, bson.M{"_id": leadID}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Lead not found",
			})
		}
		log.Printf("Error finding lead: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if lead.Status == models.LeadStatusConverted {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Lead was already converted",
			Data:    map[string]string{"dealId": lead.ConvertedDealID.Hex()},
		})
	}

	deal := &models.Deal{
		WorkspaceID: lead.WorkspaceID,
		LeadID:      lead.ID,
		AssignedTo:  lead.AssignedTo,
		Title:       req.Title,
		Company:     lead.Company,
		Value:       req.Value,
		Stage:       models.StageNew,
		CreatedBy:   userID,
	}
	if err := lc.deals.Create(ctx, deal); err != nil {
		log.Printf("Error creating deal from lead: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create deal",
		})
	}

	_, err = lc.db.Collection("leads").UpdateOne(ctx,
		bson.M{"_id": leadID},
		bson.M{"$set": bson.M{
			"status":          models.LeadStatusConverted,
			"convertedDealId": deal.ID,
			"updatedAt":       time.Now(),
		}},
	)
	if err != nil {
		log.Printf("Error marking lead converted: %v", err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Lead converted to deal",
		Data:    deal,
	})
}
