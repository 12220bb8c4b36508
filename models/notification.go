package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationCommissionCreated = "commission_created"
	NotificationLevelUp           = "level_up"
	NotificationDisputeCreated    = "dispute_created"
	NotificationDisputeResolved   = "dispute_resolved"
)

// Notification model
type Notification struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`           // The user who receives the notification
	WorkspaceID primitive.ObjectID `json:"workspaceId" bson:"workspaceId"` // Workspace the event belongs to
	Title       string             `json:"title" bson:"title"`
	Message     string             `json:"message" bson:"message"`
	Type        string             `json:"type" bson:"type"` // e.g. "commission_created", "level_up"
	Data        interface{}        `json:"data,omitempty" bson:"data"`
	IsRead      bool               `json:"isRead" bson:"isRead"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
