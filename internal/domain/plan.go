package domain

import "math"

// Plan is the persisted artifact of one assessment: the engine output plus
// the catalog texts a report renderer needs. Maps keep JSON key order stable.
type Plan struct {
	ID              string                   `json:"id"`
	BusinessTypeID  string                   `json:"business_type_id"`
	LocationID      string                   `json:"location_id,omitempty"`
	AsOf            string                   `json:"as_of"`
	Risks           []RiskAssessmentResult   `json:"risks"`
	Recommendations []StrategyRecommendation `json:"recommendations"`
	HazardNames     map[string]LocalizedText `json:"hazard_names"`
	StrategyTitles  map[string]LocalizedText `json:"strategy_titles"`

	// RecommendationsError is set when the strategy catalog was empty or
	// unreadable; Recommendations is then empty.
	RecommendationsError string `json:"recommendations_error,omitempty"`
}

// DateLayout is the calendar date format used for as-of dates.
const DateLayout = "2006-01-02"

// RoundScore trims float noise from products such as 5.0*1.4 so that
// threshold comparisons see the intended value.
func RoundScore(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
