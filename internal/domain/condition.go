package domain

import (
	"fmt"
	"math"
)

type ConditionKind string

const (
	ConditionBoolean   ConditionKind = "boolean"
	ConditionThreshold ConditionKind = "threshold"
	ConditionRange     ConditionKind = "range"
)

// Condition is the closed set of multiplier rule conditions. Only the types
// in this package implement it.
type Condition interface {
	Kind() ConditionKind
	Validate() error
	isCondition()
}

// BooleanCondition holds when the characteristic is exactly true.
type BooleanCondition struct{}

// ThresholdCondition holds when the characteristic is >= Threshold.
type ThresholdCondition struct {
	Threshold float64
}

// RangeCondition holds when Min <= characteristic <= Max.
type RangeCondition struct {
	Min float64
	Max float64
}

func (BooleanCondition) Kind() ConditionKind   { return ConditionBoolean }
func (ThresholdCondition) Kind() ConditionKind { return ConditionThreshold }
func (RangeCondition) Kind() ConditionKind     { return ConditionRange }

func (BooleanCondition) isCondition()   {}
func (ThresholdCondition) isCondition() {}
func (RangeCondition) isCondition()     {}

func (BooleanCondition) Validate() error { return nil }

func (c ThresholdCondition) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		return fmt.Errorf("threshold must be finite")
	}
	return nil
}

func (c RangeCondition) Validate() error {
	if math.IsNaN(c.Min) || math.IsNaN(c.Max) {
		return fmt.Errorf("range bounds must be numbers")
	}
	if c.Min > c.Max {
		return fmt.Errorf("range min %v exceeds max %v", c.Min, c.Max)
	}
	return nil
}

// NewCondition builds a condition from its stored representation.
// threshold is required for threshold conditions, min and max for ranges.
func NewCondition(kind string, threshold, min, max *float64) (Condition, error) {
	var c Condition
	switch ConditionKind(kind) {
	case ConditionBoolean:
		c = BooleanCondition{}
	case ConditionThreshold:
		if threshold == nil {
			return nil, fmt.Errorf("threshold condition without threshold value")
		}
		c = ThresholdCondition{Threshold: *threshold}
	case ConditionRange:
		if min == nil || max == nil {
			return nil, fmt.Errorf("range condition needs both min and max")
		}
		c = RangeCondition{Min: *min, Max: *max}
	default:
		return nil, fmt.Errorf("unknown condition kind %q", kind)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the parts of a rule the engine depends on.
func (r MultiplierRule) Validate() error {
	if r.Characteristic == "" {
		return fmt.Errorf("rule %s: no characteristic", r.ID)
	}
	if r.Condition == nil {
		return fmt.Errorf("rule %s: no condition", r.ID)
	}
	if err := r.Condition.Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	if math.IsNaN(r.Factor) || math.IsInf(r.Factor, 0) || r.Factor <= 0 {
		return fmt.Errorf("rule %s: factor must be > 0, got %v", r.ID, r.Factor)
	}
	if len(r.Hazards) == 0 {
		return fmt.Errorf("rule %s: no applicable hazards", r.ID)
	}
	return nil
}
