package domain

import "fmt"

// BaseLevel is the coarse ordinal severity assigned to a (business type,
// hazard) pair or a location override.
type BaseLevel string

const (
	BaseLow      BaseLevel = "low"
	BaseMedium   BaseLevel = "medium"
	BaseHigh     BaseLevel = "high"
	BaseVeryHigh BaseLevel = "very_high"
)

// ParseBaseLevel accepts the four catalog levels.
func ParseBaseLevel(s string) (BaseLevel, error) {
	switch l := BaseLevel(s); l {
	case BaseLow, BaseMedium, BaseHigh, BaseVeryHigh:
		return l, nil
	default:
		return "", fmt.Errorf("invalid base level %q", s)
	}
}

// Anchor returns the level's score on the internal 0-100 scale.
func (l BaseLevel) Anchor() float64 {
	switch l {
	case BaseLow:
		return 30
	case BaseMedium:
		return 50
	case BaseHigh:
		return 70
	case BaseVeryHigh:
		return 90
	default:
		return 0
	}
}

func (l BaseLevel) rank() int {
	switch l {
	case BaseLow:
		return 1
	case BaseMedium:
		return 2
	case BaseHigh:
		return 3
	case BaseVeryHigh:
		return 4
	default:
		return 0
	}
}

// Higher reports whether l is more severe than other.
func (l BaseLevel) Higher(other BaseLevel) bool { return l.rank() > other.rank() }

// RiskLevel is the display category derived from a final 0-10 score.
type RiskLevel string

const (
	LevelVeryLow  RiskLevel = "very_low"
	LevelLow      RiskLevel = "low"
	LevelMedium   RiskLevel = "medium"
	LevelHigh     RiskLevel = "high"
	LevelVeryHigh RiskLevel = "very_high"
)

type Disposition string

const (
	DispositionForceSelected Disposition = "force_selected"
	DispositionSelected      Disposition = "selected"
	DispositionAvailable     Disposition = "available"
)

type SelectionReason string

const (
	ReasonForceThreshold     SelectionReason = "force_threshold"
	ReasonPreselectThreshold SelectionReason = "preselect_threshold"
	ReasonBelowThreshold     SelectionReason = "below_threshold"
	ReasonNoLocationData     SelectionReason = "no_location_data"
)

// Priority is the bucket a strategy recommendation is sorted into.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank orders priorities; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}
