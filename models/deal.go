package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pipeline stages, in pipeline order. closed_won and closed_lost are terminal.
const (
	StageNew        = "new"
	StageContacted  = "contacted"
	StageDiscovery  = "discovery"
	StageMeeting    = "meeting"
	StageProposal   = "proposal"
	StageClosedWon  = "closed_won"
	StageClosedLost = "closed_lost"
)

type Deal struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	LeadID      primitive.ObjectID `json:"leadId,omitempty" bson:"leadId,omitempty"`
	AssignedTo  primitive.ObjectID `json:"assignedTo" bson:"assignedTo"` // SDR user ID
	Title       string             `json:"title" bson:"title"`
	Company     string             `json:"company,omitempty" bson:"company,omitempty"`
	Value       float64            `json:"value" bson:"value"`
	Stage       string             `json:"stage" bson:"stage"`
	CreatedBy   primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
	ClosedAt    *time.Time         `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}

// IsValidStage reports whether s is a known pipeline stage.
func IsValidStage(s string) bool {
	switch s {
	case StageNew, StageContacted, StageDiscovery, StageMeeting, StageProposal, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// IsTerminalStage reports whether s is a terminal stage. Deals in a terminal
// stage reject further stage changes.
func IsTerminalStage(s string) bool {
	return s == StageClosedWon || s == StageClosedLost
}
