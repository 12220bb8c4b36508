package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCommissionLevel1(t *testing.T) {
	b, err := ComputeCommission(10000, 2, Level1)
	require.NoError(t, err)

	assert.InDelta(t, 200, b.RakeAmount, 1e-9)
	assert.InDelta(t, 9800, b.GrossCommission, 1e-9)
	assert.Equal(t, 5.0, b.PlatformCutPercent)
	assert.InDelta(t, 490, b.PlatformCutAmount, 1e-9)
	assert.InDelta(t, 9310, b.SDRPayoutAmount, 1e-9)
}

func TestComputeCommissionLevel3(t *testing.T) {
	b, err := ComputeCommission(10000, 2, Level3)
	require.NoError(t, err)

	assert.InDelta(t, 9800, b.GrossCommission, 1e-9)
	assert.Equal(t, 2.5, b.PlatformCutPercent)
	assert.InDelta(t, 245, b.PlatformCutAmount, 1e-9)
	assert.InDelta(t, 9555, b.SDRPayoutAmount, 1e-9)
}

func TestComputeCommissionIdentities(t *testing.T) {
	cases := []struct {
		dealValue   float64
		rakePercent float64
		level       Level
	}{
		{10000, 2, Level1},
		{12345.67, 3.5, Level2},
		{1, 0.1, Level3},
		{999999.99, 15, Level1},
	}
	for _, tc := range cases {
		b, err := ComputeCommission(tc.dealValue, tc.rakePercent, tc.level)
		require.NoError(t, err)
		assert.InDelta(t, tc.dealValue, b.RakeAmount+b.GrossCommission, 1e-9)
		assert.InDelta(t, b.GrossCommission, b.PlatformCutAmount+b.SDRPayoutAmount, 1e-9)
	}
}

func TestComputeCommissionRakeEdges(t *testing.T) {
	// 0% rake: the whole deal value becomes gross commission.
	b, err := ComputeCommission(10000, 0, Level1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.RakeAmount)
	assert.Equal(t, 10000.0, b.GrossCommission)
	assert.InDelta(t, 9500, b.SDRPayoutAmount, 1e-9)

	// 100% rake: everything goes to the agency, nothing downstream.
	b, err = ComputeCommission(10000, 100, Level1)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, b.RakeAmount)
	assert.Equal(t, 0.0, b.GrossCommission)
	assert.Equal(t, 0.0, b.PlatformCutAmount)
	assert.Equal(t, 0.0, b.SDRPayoutAmount)
}

func TestComputeCommissionZeroValueDeal(t *testing.T) {
	b, err := ComputeCommission(0, 2, Level2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.RakeAmount)
	assert.Equal(t, 0.0, b.SDRPayoutAmount)
}

func TestComputeCommissionRejectsBadInput(t *testing.T) {
	cases := []struct {
		name        string
		dealValue   float64
		rakePercent float64
		level       Level
	}{
		{"negative deal value", -100, 2, Level1},
		{"NaN deal value", math.NaN(), 2, Level1},
		{"infinite deal value", math.Inf(1), 2, Level1},
		{"negative rake", 10000, -1, Level1},
		{"rake above 100", 10000, 100.01, Level1},
		{"NaN rake", 10000, math.NaN(), Level1},
		{"unknown level", 10000, 2, Level(9)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeCommission(tc.dealValue, tc.rakePercent, tc.level)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
