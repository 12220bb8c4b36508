package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dispute statuses
const (
	DisputeStatusOpen     = "open"
	DisputeStatusResolved = "resolved"
)

// Dispute is raised by an SDR or agency owner against a commission and
// resolved by a platform admin. CaseRef is the human-facing reference quoted
// in notifications and support threads.
type Dispute struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CaseRef      string             `json:"caseRef" bson:"caseRef"`
	WorkspaceID  primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	CommissionID primitive.ObjectID `json:"commissionId" bson:"commissionId"`
	RaisedBy     primitive.ObjectID `json:"raisedBy" bson:"raisedBy"`
	Reason       string             `json:"reason" bson:"reason"`
	Status       string             `json:"status" bson:"status"` // "open", "resolved"
	Resolution   string             `json:"resolution,omitempty" bson:"resolution,omitempty"`
	ResolvedBy   primitive.ObjectID `json:"resolvedBy,omitempty" bson:"resolvedBy,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	ResolvedAt   *time.Time         `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}
