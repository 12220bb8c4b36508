package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRakePercent is applied when a workspace is created without an
// explicit rake percentage.
const DefaultRakePercent = 2.0

// Workspace represents an agency tenant. The rake percentage is read at the
// moment a deal closes and copied onto the commission row; changing it later
// never recalculates existing commissions.
type Workspace struct {
	ID                 primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID            primitive.ObjectID   `json:"ownerId" bson:"ownerId"`
	Name               string               `json:"name" bson:"name"`
	Description        string               `json:"description,omitempty" bson:"description,omitempty"`
	RakePercent        float64              `json:"rakePercent" bson:"rakePercent"`
	SubscriptionStatus string               `json:"subscriptionStatus" bson:"subscriptionStatus"` // "active", "trial", "suspended"
	Members            []primitive.ObjectID `json:"members,omitempty" bson:"members,omitempty"`   // SDR user IDs
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// HasMember reports whether the given SDR belongs to the workspace.
func (w *Workspace) HasMember(userID primitive.ObjectID) bool {
	for _, m := range w.Members {
		if m == userID {
			return true
		}
	}
	return false
}
