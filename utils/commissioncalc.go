package utils

import (
	"fmt"
	"math"
)

// CommissionBreakdown is the full split of a deal's value between agency
// rake, platform cut and SDR payout. Amounts are kept at full float64
// precision; round only when formatting for display.
type CommissionBreakdown struct {
	RakeAmount         float64 `json:"rakeAmount"`
	GrossCommission    float64 `json:"grossCommission"`
	PlatformCutPercent float64 `json:"platformCutPercent"`
	PlatformCutAmount  float64 `json:"platformCutAmount"`
	SDRPayoutAmount    float64 `json:"sdrPayoutAmount"`
}

// ComputeCommission splits dealValue into rake, gross commission, platform
// cut and SDR payout.
//
//	rakeAmount       = dealValue * rakePercent / 100
//	grossCommission  = dealValue - rakeAmount
//	platformCut      = grossCommission * platformCutPercent(level) / 100
//	sdrPayout        = grossCommission - platformCut
//
// So rakeAmount + grossCommission == dealValue and
// platformCutAmount + sdrPayoutAmount == grossCommission hold exactly.
// The function is pure and safe to call speculatively (the preview endpoint
// uses it without creating any record).
func ComputeCommission(dealValue, rakePercent float64, level Level) (CommissionBreakdown, error) {
	if dealValue < 0 || math.IsNaN(dealValue) || math.IsInf(dealValue, 0) {
		return CommissionBreakdown{}, fmt.Errorf("%w: deal value must be a non-negative finite number, got %v", ErrInvalidInput, dealValue)
	}
	if rakePercent < 0 || rakePercent > 100 || math.IsNaN(rakePercent) {
		return CommissionBreakdown{}, fmt.Errorf("%w: rake percentage must be in [0,100], got %v", ErrInvalidInput, rakePercent)
	}

	cutPercent, err := PlatformCutForLevel(level)
	if err != nil {
		return CommissionBreakdown{}, err
	}

	rakeAmount := dealValue * rakePercent / 100
	grossCommission := dealValue - rakeAmount
	platformCutAmount := grossCommission * cutPercent / 100
	sdrPayoutAmount := grossCommission - platformCutAmount

	return CommissionBreakdown{
		RakeAmount:         rakeAmount,
		GrossCommission:    grossCommission,
		PlatformCutPercent: cutPercent,
		PlatformCutAmount:  platformCutAmount,
		SDRPayoutAmount:    sdrPayoutAmount,
	}, nil
}
