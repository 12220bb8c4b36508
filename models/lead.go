package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead statuses
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusDead      = "dead"
)

// Lead is a prospect worked by an SDR before it converts into a deal.
type Lead struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID     primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	AssignedTo      primitive.ObjectID `json:"assignedTo" bson:"assignedTo"` // SDR user ID
	Name            string             `json:"name" bson:"name"`
	Company         string             `json:"company,omitempty" bson:"company,omitempty"`
	Email           string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone           string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Status          string             `json:"status" bson:"status"`
	ConvertedDealID primitive.ObjectID `json:"convertedDealId,omitempty" bson:"convertedDealId,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}
