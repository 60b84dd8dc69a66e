package thresholds

import (
	"fmt"
	"math"

	"bizready/internal/domain"
)

const (
	DefaultForcePreselectScore = 7.0
	DefaultMinPreselectScore   = 4.0
)

// Thresholds holds the two admin-tunable cutoffs on the 0-10 scale.
type Thresholds struct {
	ForcePreselect float64
	MinPreselect   float64
}

func Default() Thresholds {
	return Thresholds{ForcePreselect: DefaultForcePreselectScore, MinPreselect: DefaultMinPreselectScore}
}

// Validate requires finite cutoffs with 0 <= MinPreselect <= ForcePreselect <= 10.
func (t Thresholds) Validate() error {
	if !finite(t.MinPreselect) || !finite(t.ForcePreselect) {
		return fmt.Errorf("invalid thresholds: min (%v) and force (%v) must be finite", t.MinPreselect, t.ForcePreselect)
	}
	if t.MinPreselect < 0 || t.ForcePreselect > 10 || t.MinPreselect > t.ForcePreselect {
		return fmt.Errorf("invalid thresholds: need 0 <= min (%v) <= force (%v) <= 10", t.MinPreselect, t.ForcePreselect)
	}
	return nil
}

type Classification struct {
	Level       domain.RiskLevel
	Disposition domain.Disposition
	Reason      domain.SelectionReason
}

// Classify maps a final score to its level and disposition. The first
// matching rule wins: force cutoff, then preselect cutoff, then available.
func (t Thresholds) Classify(score float64, hasLocationData bool) Classification {
	c := Classification{Level: Level(score)}
	switch {
	case score >= t.ForcePreselect:
		c.Disposition, c.Reason = domain.DispositionForceSelected, domain.ReasonForceThreshold
	case score >= t.MinPreselect:
		c.Disposition, c.Reason = domain.DispositionSelected, domain.ReasonPreselectThreshold
	case !hasLocationData:
		c.Disposition, c.Reason = domain.DispositionAvailable, domain.ReasonNoLocationData
	default:
		c.Disposition, c.Reason = domain.DispositionAvailable, domain.ReasonBelowThreshold
	}
	return c
}

// Level returns the display category for a 0-10 score.
func Level(score float64) domain.RiskLevel {
	switch {
	case score < 2:
		return domain.LevelVeryLow
	case score < 4:
		return domain.LevelLow
	case score < 6:
		return domain.LevelMedium
	case score < 8:
		return domain.LevelHigh
	default:
		return domain.LevelVeryHigh
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
