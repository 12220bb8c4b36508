package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job statuses
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Application statuses
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// Job is a sales engagement posted by an agency looking for SDRs.
type Job struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID     primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	PostedBy        primitive.ObjectID `json:"postedBy" bson:"postedBy"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	CommissionTerms string             `json:"commissionTerms,omitempty" bson:"commissionTerms,omitempty"`
	Status          string             `json:"status" bson:"status"` // "open", "closed"
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Application is one SDR's application to a job. The applications collection
// has a unique index on (jobId, sdrId) so a rep can apply at most once.
type Application struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	JobID     primitive.ObjectID `json:"jobId" bson:"jobId"`
	SDRID     primitive.ObjectID `json:"sdrId" bson:"sdrId"`
	Pitch     string             `json:"pitch,omitempty" bson:"pitch,omitempty"`
	Status    string             `json:"status" bson:"status"` // "pending", "accepted", "rejected", "withdrawn"
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
