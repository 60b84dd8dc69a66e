package domain

import (
	"github.com/shopspring/decimal"
)

// Core catalog and result types. Catalog types are read-only reference data
// authored by an administrator; results are derived per assessment.

type HazardCategory string

const (
	CategoryNatural       HazardCategory = "natural"
	CategoryTechnological HazardCategory = "technological"
	CategoryHuman         HazardCategory = "human"
	CategoryEnvironmental HazardCategory = "environmental"
	CategoryEconomic      HazardCategory = "economic"
)

type HazardDefinition struct {
	ID               string         `json:"id" yaml:"id"`
	Name             LocalizedText  `json:"name" yaml:"name"`
	Category         HazardCategory `json:"category" yaml:"category"`
	DefaultFrequency string         `json:"default_frequency,omitempty" yaml:"default_frequency"`
	DefaultImpact    string         `json:"default_impact,omitempty" yaml:"default_impact"`
	PeakMonths       []int          `json:"peak_months,omitempty" yaml:"peak_months"`
	WarningTime      string         `json:"warning_time,omitempty" yaml:"warning_time"`
	GeographicScope  string         `json:"geographic_scope,omitempty" yaml:"geographic_scope"`
	CascadingRisks   []string       `json:"cascading_risks,omitempty" yaml:"cascading_risks"`
}

// Key returns the canonical identifier used for all hazard comparisons.
func (h HazardDefinition) Key() HazardKey { return CanonicalHazardKey(h.ID) }

// InPeakSeason reports whether month (1-12) is one of the hazard's peak months.
func (h HazardDefinition) InPeakSeason(month int) bool {
	for _, m := range h.PeakMonths {
		if m == month {
			return true
		}
	}
	return false
}

type BusinessType struct {
	ID   string        `json:"id" yaml:"id"`
	Name LocalizedText `json:"name" yaml:"name"`
}

type Location struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Coastal bool   `json:"coastal" yaml:"coastal"`
	Urban   bool   `json:"urban" yaml:"urban"`
}

// BusinessTypeHazardProfile links a business type to a hazard with a base level.
type BusinessTypeHazardProfile struct {
	BusinessTypeID string    `json:"business_type_id" yaml:"business_type_id"`
	HazardID       string    `json:"hazard_id" yaml:"hazard_id"`
	BaseLevel      BaseLevel `json:"base_level" yaml:"base_level"`
}

// LocationHazardProfile overrides the base level of a hazard at one location.
type LocationHazardProfile struct {
	LocationID string    `json:"location_id" yaml:"location_id"`
	HazardID   string    `json:"hazard_id" yaml:"hazard_id"`
	Level      BaseLevel `json:"level" yaml:"level"`
}

// MultiplierRule conditionally scales a hazard score based on one
// business characteristic.
type MultiplierRule struct {
	ID             string
	Name           string
	Characteristic string
	Condition      Condition
	Factor         float64
	Hazards        []string
	Priority       int
	Reasoning      string
	Active         bool
}

type StrategyDefinition struct {
	ID                  string          `json:"id" yaml:"id"`
	Title               LocalizedText   `json:"title" yaml:"title"`
	Category            string          `json:"category" yaml:"category"`
	Hazards             []string        `json:"hazards" yaml:"hazards"`
	BusinessTypes       []string        `json:"business_types,omitempty" yaml:"business_types"`
	CostTier            string          `json:"cost_tier,omitempty" yaml:"cost_tier"`
	CostEstimate        decimal.Decimal `json:"cost_estimate" yaml:"cost_estimate"`
	EffectivenessRating int             `json:"effectiveness_rating,omitempty" yaml:"effectiveness_rating"`
	PriorityHint        Priority        `json:"priority_hint,omitempty" yaml:"priority_hint"`
	IsRecommended       bool            `json:"is_recommended" yaml:"is_recommended"`
}

// AppliesToAllBusinessTypes reports whether the strategy has no business type restriction.
func (s StrategyDefinition) AppliesToAllBusinessTypes() bool {
	if len(s.BusinessTypes) == 0 {
		return true
	}
	for _, bt := range s.BusinessTypes {
		if bt == "all" {
			return true
		}
	}
	return false
}

// AppliedMultiplier is one entry of the multiplier audit trail.
type AppliedMultiplier struct {
	RuleID    string  `json:"rule_id"`
	Name      string  `json:"name"`
	Factor    float64 `json:"factor"`
	Reasoning string  `json:"reasoning,omitempty"`
}

type RiskAssessmentResult struct {
	HazardID               string              `json:"hazard_id"`
	Category               HazardCategory      `json:"category,omitempty"`
	BaseLevel              BaseLevel           `json:"base_level"`
	EffectiveLevel         BaseLevel           `json:"effective_level"`
	BaseScore              float64             `json:"base_score"`
	LocationAdjustedScore  float64             `json:"location_adjusted_score"`
	CoastalFactor          float64             `json:"coastal_factor"`
	UrbanFactor            float64             `json:"urban_factor"`
	EnvironmentalFactor    float64             `json:"environmental_factor"`
	SeasonalFactor         float64             `json:"seasonal_factor"`
	RawScore               float64             `json:"raw_score"`
	Multipliers            []AppliedMultiplier `json:"multipliers"`
	MultipliersUnavailable bool                `json:"multipliers_unavailable,omitempty"`
	FinalScore             float64             `json:"final_score"`
	Level                  RiskLevel           `json:"level"`
	Disposition            Disposition         `json:"disposition"`
	Reason                 SelectionReason     `json:"reason"`
	HasLocationData        bool                `json:"has_location_data"`
	CascadingRisks         []string            `json:"cascading_risks"`
}

// Active reports whether the hazard passed classification and feeds the
// strategy ranker.
func (r RiskAssessmentResult) Active() bool {
	return r.Disposition == DispositionForceSelected || r.Disposition == DispositionSelected
}

type StrategyRecommendation struct {
	StrategyID     string          `json:"strategy_id"`
	Effectiveness  float64         `json:"effectiveness"`
	Cost           float64         `json:"cost"`
	ROI            float64         `json:"roi"`
	Priority       Priority        `json:"priority"`
	Conflicts      []string        `json:"conflicts"`
	MatchedHazards []string        `json:"matched_hazards"`
	IsRecommended  bool            `json:"is_recommended"`
	EstimatedCost  decimal.Decimal `json:"estimated_cost"`
}
