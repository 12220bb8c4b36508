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
	"github.com/leadrake/leadrake_backend/utils"
)

type CallLogController struct {
	db *mongo.Database
}

func NewCallLogController(db *mongo.Database) *CallLogController {
	return &CallLogController{db: db}
}

// LogCallRequest represents the request body for logging a cold call
type LogCallRequest struct {
	LeadID          string `json:"leadId" validate:"required"`
	Outcome         string `json:"outcome" validate:"required"`
	DurationSeconds int    `json:"durationSeconds" validate:"gte=0"`
	Notes           string `json:"notes,omitempty"`
}

// LogCall records a call made by the calling SDR against one of their leads.
// When the outcome is meeting_booked the lead is bumped to qualified.
func (cc *CallLogController) LogCall(c echo.Context) error {
	var req LogCallRequest
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
	if !models.IsValidCallOutcome(req.Outcome) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown call outcome: " + req.Outcome,
		})
	}

	leadID, err := primitive.ObjectIDFromHex(req.LeadID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid lead ID",
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

	var lead models.Lead
	err = cc.db.Collection("leads").FindOne(ctx, bson.M{"_id": leadID}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Lead not found",
			})
		}
		log.Printf("Error finding lead for call log: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	callLog := models.CallLog{
		ID:              primitive.NewObjectID(),
		WorkspaceID:     lead.WorkspaceID,
		LeadID:          lead.ID,
		DealID:          lead.ConvertedDealID,
		SDRID:           userID,
		Outcome:         req.Outcome,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
		CreatedAt:       time.Now(),
	}

	if _, err := cc.db.Collection("call_logs").InsertOne(ctx, callLog); err != nil {
		log.Printf("Error inserting call log: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to log call",
		})
	}

	if req.Outcome == models.CallOutcomeMeetingBooked && (lead.Status == models.LeadStatusNew || lead.Status == models.LeadStatusContacted) {
		_, err := cc.db.Collection("leads").UpdateOne(ctx,
			bson.M{"_id": lead.ID, "status": bson.M{"$in": []string{models.LeadStatusNew, models.LeadStatusContacted}}},
			bson.M{"$set": bson.M{"status": models.LeadStatusQualified, "updatedAt": time.Now()}},
		)
		if err != nil {
			log.Printf("Error advancing lead %s after booked meeting: %v", lead.ID.Hex(), err)
		}
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Call logged successfully",
		Data:    callLog,
	})
}

// ListLeadCalls returns the call history of a lead, newest first.
func (cc *CallLogController) ListLeadCalls(c echo.Context) error {
	leadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid lead ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := cc.db.Collection("call_logs").Find(ctx,
		bson.M{"leadId": leadID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		log.Printf("Error listing call logs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	var calls []models.CallLog
	if err := cursor.All(ctx, &calls); err != nil {
		log.Printf("Error decoding call logs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Call logs retrieved successfully",
		Data:    calls,
	})
}
