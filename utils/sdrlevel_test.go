package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForThresholds(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		want  Level
	}{
		{"zero", 0, Level1},
		{"just below level 2", 29999.99, Level1},
		{"exactly level 2 threshold", 30000, Level2},
		{"just below level 3", 99999.99, Level2},
		{"exactly level 3 threshold", 100000, Level3},
		{"well past level 3", 5000000, Level3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			progress, err := LevelFor(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, progress.Level)
		})
	}
}

func TestLevelForIsMonotonic(t *testing.T) {
	prev := Level1
	for v := 0.0; v <= 150000; v += 500 {
		progress, err := LevelFor(v)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, progress.Level, prev, "level dropped at value %v", v)
		prev = progress.Level
	}
}

func TestLevelForProgress(t *testing.T) {
	progress, err := LevelFor(15000)
	require.NoError(t, err)
	assert.Equal(t, Level1, progress.Level)
	assert.InDelta(t, 50, progress.ProgressPercent, 1e-9)
	require.NotNil(t, progress.NextThreshold)
	assert.Equal(t, 30000.0, *progress.NextThreshold)
	require.NotNil(t, progress.Remaining)
	assert.Equal(t, 15000.0, *progress.Remaining)

	progress, err = LevelFor(65000)
	require.NoError(t, err)
	assert.Equal(t, Level2, progress.Level)
	assert.InDelta(t, 50, progress.ProgressPercent, 1e-9)
	require.NotNil(t, progress.Remaining)
	assert.Equal(t, 35000.0, *progress.Remaining)
}

func TestLevelForTerminalLevel(t *testing.T) {
	progress, err := LevelFor(250000)
	require.NoError(t, err)
	assert.Equal(t, Level3, progress.Level)
	assert.Equal(t, 100.0, progress.ProgressPercent)
	assert.Nil(t, progress.NextThreshold)
	assert.Nil(t, progress.Remaining)
}

func TestLevelForRejectsBadInput(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := LevelFor(v)
		assert.ErrorIs(t, err, ErrInvalidInput, "value %v", v)
	}
}

func TestParseLevel(t *testing.T) {
	for _, v := range []int{1, 2, 3} {
		level, err := ParseLevel(v)
		require.NoError(t, err)
		assert.Equal(t, Level(v), level)
	}
	for _, v := range []int{0, 4, -1, 99} {
		_, err := ParseLevel(v)
		assert.ErrorIs(t, err, ErrInvalidInput, "level %d", v)
	}
}

func TestPlatformCutForLevel(t *testing.T) {
	cuts := map[Level]float64{Level1: 5, Level2: 4, Level3: 2.5}
	for level, want := range cuts {
		cut, err := PlatformCutForLevel(level)
		require.NoError(t, err)
		assert.Equal(t, want, cut)
	}
	_, err := PlatformCutForLevel(Level(7))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDetectLevelUp(t *testing.T) {
	assert.True(t, DetectLevelUp(Level1, Level2))
	assert.True(t, DetectLevelUp(Level1, Level3))
	assert.True(t, DetectLevelUp(Level2, Level3))
	assert.False(t, DetectLevelUp(Level2, Level2))
	assert.False(t, DetectLevelUp(Level3, Level1))
}
