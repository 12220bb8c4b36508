package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Call outcomes
const (
	CallOutcomeNoAnswer      = "no_answer"
	CallOutcomeVoicemail     = "voicemail"
	CallOutcomeConnected     = "connected"
	CallOutcomeMeetingBooked = "meeting_booked"
	CallOutcomeNotInterested = "not_interested"
)

// CallLog records one cold call made against a lead. Recording files are
// handled by external storage; only the metadata lives here.
type CallLog struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID     primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	LeadID          primitive.ObjectID `json:"leadId" bson:"leadId"`
	DealID          primitive.ObjectID `json:"dealId,omitempty" bson:"dealId,omitempty"`
	SDRID           primitive.ObjectID `json:"sdrId" bson:"sdrId"`
	Outcome         string             `json:"outcome" bson:"outcome"`
	DurationSeconds int                `json:"durationSeconds" bson:"durationSeconds"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// IsValidCallOutcome reports whether o is a known call outcome.
func IsValidCallOutcome(o string) bool {
	switch o {
	case CallOutcomeNoAnswer, CallOutcomeVoicemail, CallOutcomeConnected, CallOutcomeMeetingBooked, CallOutcomeNotInterested:
		return true
	}
	return false
}
