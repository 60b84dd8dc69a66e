package domain

import (
	"encoding/json"
	"fmt"
)

// ruleRecord is the flat stored shape of a MultiplierRule, shared by the
// JSON encoding and the catalog file format.
type ruleRecord struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Characteristic string   `json:"characteristic" yaml:"characteristic"`
	Kind           string   `json:"condition" yaml:"condition"`
	Threshold      *float64 `json:"threshold,omitempty" yaml:"threshold"`
	Min            *float64 `json:"min,omitempty" yaml:"min"`
	Max            *float64 `json:"max,omitempty" yaml:"max"`
	Factor         float64  `json:"factor" yaml:"factor"`
	Hazards        []string `json:"hazards" yaml:"hazards"`
	Priority       int      `json:"priority" yaml:"priority"`
	Reasoning      string   `json:"reasoning,omitempty" yaml:"reasoning"`
	Active         bool     `json:"active" yaml:"active"`
}

func (r MultiplierRule) MarshalJSON() ([]byte, error) {
	rec := ruleRecord{
		ID:             r.ID,
		Name:           r.Name,
		Characteristic: r.Characteristic,
		Factor:         r.Factor,
		Hazards:        r.Hazards,
		Priority:       r.Priority,
		Reasoning:      r.Reasoning,
		Active:         r.Active,
	}
	switch c := r.Condition.(type) {
	case BooleanCondition:
		rec.Kind = string(ConditionBoolean)
	case ThresholdCondition:
		rec.Kind = string(ConditionThreshold)
		rec.Threshold = &c.Threshold
	case RangeCondition:
		rec.Kind = string(ConditionRange)
		rec.Min, rec.Max = &c.Min, &c.Max
	case nil:
	default:
		return nil, fmt.Errorf("rule %s: unsupported condition %T", r.ID, c)
	}
	return json.Marshal(rec)
}

// UnmarshalJSON keeps a rule with an unparseable condition (Condition nil) so
// that Validate reports it as malformed instead of failing the whole list.
func (r *MultiplierRule) UnmarshalJSON(b []byte) error {
	var rec ruleRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	*r = rec.toRule()
	return nil
}

func (rec ruleRecord) toRule() MultiplierRule {
	cond, err := NewCondition(rec.Kind, rec.Threshold, rec.Min, rec.Max)
	if err != nil {
		cond = nil
	}
	return MultiplierRule{
		ID:             rec.ID,
		Name:           rec.Name,
		Characteristic: rec.Characteristic,
		Condition:      cond,
		Factor:         rec.Factor,
		Hazards:        rec.Hazards,
		Priority:       rec.Priority,
		Reasoning:      rec.Reasoning,
		Active:         rec.Active,
	}
}

// UnmarshalYAML decodes the catalog file shape of a rule.
func (r *MultiplierRule) UnmarshalYAML(unmarshal func(any) error) error {
	rec := ruleRecord{Active: true}
	if err := unmarshal(&rec); err != nil {
		return err
	}
	*r = rec.toRule()
	return nil
}
