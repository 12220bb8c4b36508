package utils

import (
	"fmt"
	"math"
)

// Level is an SDR tier earned by cumulative closed-deal value. Higher levels
// lower the platform's cut of the rep's commission.
type Level int

const (
	Level1 Level = 1
	Level2 Level = 2
	Level3 Level = 3
)

// levelPolicy is the full policy for one level. Adding a level means adding
// one row here; nothing else branches on the level number.
type levelPolicy struct {
	minValue           float64
	nextThreshold      float64 // 0 when the level is terminal
	terminal           bool
	platformCutPercent float64
}

var levelPolicies = map[Level]levelPolicy{
	Level1: {minValue: 0, nextThreshold: 30000, platformCutPercent: 5},
	Level2: {minValue: 30000, nextThreshold: 100000, platformCutPercent: 4},
	Level3: {minValue: 100000, terminal: true, platformCutPercent: 2.5},
}

// LevelProgress is the level readout for a cumulative closed value.
// NextThreshold and Remaining are nil at the terminal level.
type LevelProgress struct {
	Level           Level    `json:"level"`
	ProgressPercent float64  `json:"progressPercent"`
	NextThreshold   *float64 `json:"nextThreshold"`
	Remaining       *float64 `json:"remaining"`
}

// ParseLevel validates a stored integer level. Unknown values are rejected,
// never defaulted.
func ParseLevel(v int) (Level, error) {
	l := Level(v)
	if _, ok := levelPolicies[l]; !ok {
		return 0, fmt.Errorf("%w: unknown SDR level %d", ErrInvalidInput, v)
	}
	return l, nil
}

// LevelFor maps a cumulative closed-deal value to a level and
// progress-to-next-level metrics. Thresholds are inclusive: exactly 30,000
// is level 2 and exactly 100,000 is level 3.
func LevelFor(cumulativeValue float64) (LevelProgress, error) {
	if cumulativeValue < 0 || math.IsNaN(cumulativeValue) || math.IsInf(cumulativeValue, 0) {
		return LevelProgress{}, fmt.Errorf("%w: cumulative value must be a non-negative finite number, got %v", ErrInvalidInput, cumulativeValue)
	}

	level := Level1
	for l := Level3; l >= Level1; l-- {
		if cumulativeValue >= levelPolicies[l].minValue {
			level = l
			break
		}
	}

	policy := levelPolicies[level]
	if policy.terminal {
		return LevelProgress{Level: level, ProgressPercent: 100}, nil
	}

	progress := (cumulativeValue - policy.minValue) / (policy.nextThreshold - policy.minValue) * 100
	progress = math.Min(100, progress)
	next := policy.nextThreshold
	remaining := policy.nextThreshold - cumulativeValue
	return LevelProgress{
		Level:           level,
		ProgressPercent: progress,
		NextThreshold:   &next,
		Remaining:       &remaining,
	}, nil
}

// PlatformCutForLevel returns the platform's percentage of the gross
// commission for the given level.
func PlatformCutForLevel(l Level) (float64, error) {
	policy, ok := levelPolicies[l]
	if !ok {
		return 0, fmt.Errorf("%w: unknown SDR level %d", ErrInvalidInput, int(l))
	}
	return policy.platformCutPercent, nil
}

// DetectLevelUp reports whether a level transition upward occurred. It never
// fires on an unchanged or decreased level, so callers that keep the previous
// level can raise the level-up notification exactly once per crossing.
func DetectLevelUp(oldLevel, newLevel Level) bool {
	return newLevel > oldLevel
}
