package models

import "fmt"

type ScoringMode string

const (
	ScoringPoints  ScoringMode = "POINTS"
	ScoringWinLoss ScoringMode = "WIN_LOSS"
)

type ScheduleMode string

// ScheduleRotation is the only schedule mode with an implementation.
const ScheduleRotation ScheduleMode = "ROTATION"

// Config holds the per-tournament rules chosen at creation time.
type Config struct {
	ScoringMode  ScoringMode  `json:"scoringMode"`
	AllowDraws   bool         `json:"allowDraws"`
	ScheduleMode ScheduleMode `json:"scheduleMode"`
}

// Normalize fills in defaults for empty modes and rejects unknown ones.
func (c Config) Normalize() (Config, error) {
	if c.ScoringMode == "" {
		c.ScoringMode = ScoringPoints
	}
	if c.ScheduleMode == "" {
		c.ScheduleMode = ScheduleRotation
	}
	switch c.ScoringMode {
	case ScoringPoints, ScoringWinLoss:
	default:
		return c, fmt.Errorf("unknown scoring mode %q", c.ScoringMode)
	}
	if c.ScheduleMode != ScheduleRotation {
		return c, fmt.Errorf("unknown schedule mode %q", c.ScheduleMode)
	}
	return c, nil
}
