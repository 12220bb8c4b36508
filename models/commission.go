package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commission statuses
const (
	CommissionStatusPending = "pending"
	CommissionStatusPaid    = "paid"
)

// Commission is one payout obligation created from exactly one won deal.
// The commissions collection carries a unique index on dealId, which is what
// actually enforces the at-most-once guarantee under duplicate triggers.
//
// Invariants: RakeAmount + GrossCommission == DealValue and
// PlatformCutAmount + SDRPayoutAmount == GrossCommission, both at full
// float64 precision. Amounts are stored unrounded; rounding happens only
// when formatting notification text.
type Commission struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID `json:"workspaceId" bson:"workspaceId"`
	DealID      primitive.ObjectID `json:"dealId" bson:"dealId"`
	SDRID       primitive.ObjectID `json:"sdrId" bson:"sdrId"`

	DealValue   float64 `json:"dealValue" bson:"dealValue"`
	RakePercent float64 `json:"rakePercent" bson:"rakePercent"`
	RakeAmount  float64 `json:"rakeAmount" bson:"rakeAmount"`

	GrossCommission    float64 `json:"grossCommission" bson:"grossCommission"`
	PlatformCutPercent float64 `json:"platformCutPercent" bson:"platformCutPercent"`
	PlatformCutAmount  float64 `json:"platformCutAmount" bson:"platformCutAmount"`
	SDRPayoutAmount    float64 `json:"sdrPayoutAmount" bson:"sdrPayoutAmount"`

	SDRLevel int    `json:"sdrLevel" bson:"sdrLevel"` // level at the moment of closure
	Status   string `json:"status" bson:"status"`     // "pending", "paid"

	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	PaidAt    *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	PaidBy    primitive.ObjectID `json:"paidBy,omitempty" bson:"paidBy,omitempty"`
}
