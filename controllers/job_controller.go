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

type JobController struct {
	db         *mongo.Database
	workspaces *repositories.WorkspaceRepository
	profiles   *repositories.SDRProfileRepository
}

func NewJobController(db *mongo.Database, profiles *repositories.SDRProfileRepository) *JobController {
	return &JobController{
		db:         db,
		workspaces: repositories.NewWorkspaceRepository(db),
		profiles:   profiles,
	}
}

// CreateJobRequest represents the request body for posting a job
type CreateJobRequest struct {
	WorkspaceID     string `json:"workspaceId" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description" validate:"required"`
	CommissionTerms string `json:"commissionTerms,omitempty"`
}

// ApplyRequest represents the request body for applying to a job
type ApplyRequest struct {
	Pitch string `json:"pitch,omitempty"`
}

// CreateJob posts a job for a workspace the caller owns
func (jc *JobController) CreateJob(c echo.Context) error {
	var req CreateJobRequest
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

	workspace, err := jc.workspaces.FindByID(ctx, workspaceID)
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
			Message: "Only the workspace owner can post jobs",
		})
	}

	now := time.Now()
	job := models.Job{
		ID:              primitive.NewObjectID(),
		WorkspaceID:     workspaceID,
		PostedBy:        userID,
		Title:           req.Title,
		Description:     req.Description,
		CommissionTerms: req.CommissionTerms,
		Status:          models.JobStatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := jc.db.Collection("jobs").InsertOne(ctx, job); err != nil {
		log.Printf("Error creating job: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create job",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Job created successfully",
		Data:    job,
	})
}

// ListOpenJobs returns all open jobs across workspaces
func (jc *JobController) ListOpenJobs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := jc.db.Collection("jobs").Find(ctx,
		bson.M{"status": models.JobStatusOpen},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		log.Printf("Error listing jobs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	var jobs []models.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		log.Printf("Error decoding jobs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Jobs retrieved successfully",
		Data:    jobs,
	})
}

// Apply submits the calling SDR's application to a job. The unique
// (jobId, sdrId) index makes a second application a conflict, not a
// duplicate row.
func (jc *JobController) Apply(c echo.Context) error {
	jobID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid job ID",
		})
	}

	var req ApplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
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

	var job models.Job
	err = jc.db.Collection("jobs").FindOne(ctx, bson.M{"_id": jobID}).Decode(&job)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Job not found",
			})
		}
		log.Printf("Error finding job: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if job.Status != models.JobStatusOpen {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Job is no longer open",
		})
	}

	now := time.Now()
	application := models.Application{
		ID:        primitive.NewObjectID(),
		JobID:     jobID,
		SDRID:     userID,
		Pitch:     req.Pitch,
		Status:    models.ApplicationStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := jc.db.Collection("applications").InsertOne(ctx, application); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "You have already applied to this job",
			})
		}
		log.Printf("Error creating application: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit application",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Application submitted successfully",
		Data:    application,
	})
}

// WithdrawApplication withdraws the caller's pending application
func (jc *JobController) WithdrawApplication(c echo.Context) error {
	jobID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid job ID",
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

	result, err := jc.db.Collection("applications").UpdateOne(ctx,
		bson.M{"jobId": jobID, "sdrId": userID, "status": models.ApplicationStatusPending},
		bson.M{"$set": bson.M{"status": models.ApplicationStatusWithdrawn, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Printf("Error withdrawing application: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to withdraw application",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Pending application not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application withdrawn successfully",
	})
}

// ListApplicants returns all applications for a job (workspace owner only)
func (jc *JobController) ListApplicants(c echo.Context) error {
	jobID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid job ID",
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

	var job models.Job
	err = jc.db.Collection("jobs").FindOne(ctx, bson.M{"_id": jobID}).Decode(&job)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Job not found",
			})
		}
		log.Printf("Error finding job: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if job.PostedBy != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only the job poster can view applicants",
		})
	}

	cursor, err := jc.db.Collection("applications").Find(ctx,
		bson.M{"jobId": jobID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		log.Printf("Error listing applications: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	var applications []models.Application
	if err := cursor.All(ctx, &applications); err != nil {
		log.Printf("Error decoding applications: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Applications retrieved successfully",
		Data:    applications,
	})
}

// AcceptApplication accepts one application, adds the SDR to the workspace
// and rejects the remaining pending applications for the job.
func (jc *JobController) AcceptApplication(c echo.Context) error {
	applicationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid application ID",
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

	var application models.Application
	err = jc.db.Collection("applications").FindOne(ctx, bson.M{"_id": applicationID}).Decode(&application)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Application not found",
			})
		}
		log.Printf("Error finding application: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}

	var job models.Job
	err = jc.db.Collection("jobs").FindOne(ctx, bson.M{"_id": application.JobID}).Decode(&job)
	if err != nil {
		log.Printf("Error finding job for application: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if job.PostedBy != userID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only the job poster can accept applications",
		})
	}
	if application.Status != models.ApplicationStatusPending {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Application is not pending",
		})
	}

	now := time.Now()
	_, err = jc.db.Collection("applications").UpdateOne(ctx,
		bson.M{"_id": applicationID},
		bson.M{"$set": bson.M{"status": models.ApplicationStatusAccepted, "updatedAt": now}},
	)
	if err != nil {
		log.Printf("Error accepting application: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to accept application",
		})
	}

	if err := jc.workspaces.AddMember(ctx, job.WorkspaceID, application.SDRID); err != nil {
		log.Printf("Error adding SDR %s to workspace %s: %v", application.SDRID.Hex(), job.WorkspaceID.Hex(), err)
	}
	if err := jc.profiles.EnsureProfile(ctx, application.SDRID, ""); err != nil {
		log.Printf("Error ensuring SDR profile for %s: %v", application.SDRID.Hex(), err)
	}

	// Reject the rest and close the job
	_, err = jc.db.Collection("applications").UpdateMany(ctx,
		bson.M{"jobId": job.ID, "status": models.ApplicationStatusPending},
		bson.M{"$set": bson.M{"status": models.ApplicationStatusRejected, "updatedAt": now}},
	)
	if err != nil {
		log.Printf("Error rejecting remaining applications: %v", err)
	}
	_, err = jc.db.Collection("jobs").UpdateOne(ctx,
		bson.M{"_id": job.ID},
		bson.M{"$set": bson.M{"status": models.JobStatusClosed, "updatedAt": now}},
	)
	if err != nil {
		log.Printf("Error closing job: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application accepted; SDR added to workspace",
	})
}
