package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SDRProfile holds a rep's aggregate sales state. TotalClosedValue is
// maintained incrementally as deals close and is never decremented; SDRLevel
// only ever moves up (the writer uses $max so a transient lower derivation
// cannot regress a granted level).
type SDRProfile struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	FullName         string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Bio              string             `json:"bio,omitempty" bson:"bio,omitempty"`
	SDRLevel         int                `json:"sdrLevel" bson:"sdrLevel"`
	TotalClosedValue float64            `json:"totalClosedValue" bson:"totalClosedValue"`
	DealsClosed      int                `json:"dealsClosed" bson:"dealsClosed"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// LeaderboardEntry is one row of a workspace's SDR leaderboard, ranked by
// cumulative closed value.
type LeaderboardEntry struct {
	UserID           primitive.ObjectID `json:"userId" bson:"_id"`
	TotalClosedValue float64            `json:"totalClosedValue" bson:"totalClosedValue"`
}
