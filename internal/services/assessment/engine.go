package assessment

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"bizready/internal/catalog"
	"bizready/internal/domain"
	"bizready/internal/services/hazards"
	"bizready/internal/services/multipliers"
	"bizready/internal/services/strategies"
	"bizready/internal/services/thresholds"
)

// Engine is the risk scoring and strategy recommendation pipeline. Both
// methods are deterministic functions of their inputs and the snapshot.
type Engine struct {
	thresholds  thresholds.Thresholds
	multipliers *multipliers.Engine
	ranker      *strategies.Ranker
	logger      *slog.Logger
}

func NewEngine(th thresholds.Thresholds, logger *slog.Logger) (*Engine, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		thresholds:  th,
		multipliers: multipliers.New(logger),
		ranker:      strategies.New(logger),
		logger:      logger,
	}, nil
}

// AssessRisks scores, adjusts and classifies every hazard of the snapshot's
// business type. Results are ordered by final score, highest first.
func (e *Engine) AssessRisks(snap *catalog.Snapshot, chars domain.Characteristics, asOf time.Time) ([]domain.RiskAssessmentResult, error) {
	if snap == nil {
		return nil, fmt.Errorf("assess risks: nil catalog snapshot")
	}
	env := hazards.EnvironmentFor(snap, chars, e.logger)
	scores := hazards.Calculate(snap, env, asOf)

	results := make([]domain.RiskAssessmentResult, 0, len(scores))
	for _, s := range scores {
		base := s.Normalized()
		adj := e.multipliers.Apply(snap, s.Hazard.Key(), base, chars)
		class := e.thresholds.Classify(adj.Score, s.HasLocationData)

		results = append(results, domain.RiskAssessmentResult{
			HazardID:               s.Hazard.ID,
			Category:               s.Hazard.Category,
			BaseLevel:              s.BaseLevel,
			EffectiveLevel:         s.EffectiveLevel,
			BaseScore:              domain.RoundScore(s.BaseScore / 10),
			LocationAdjustedScore:  domain.RoundScore(s.LocationAdjusted / 10),
			CoastalFactor:          s.CoastalFactor,
			UrbanFactor:            s.UrbanFactor,
			EnvironmentalFactor:    s.EnvironmentalFactor(),
			SeasonalFactor:         s.SeasonalFactor,
			RawScore:               s.Raw,
			Multipliers:            adj.Applied,
			MultipliersUnavailable: adj.Unavailable,
			FinalScore:             adj.Score,
			Level:                  class.Level,
			Disposition:            class.Disposition,
			Reason:                 class.Reason,
			HasLocationData:        s.HasLocationData,
			CascadingRisks:         s.Cascades,
		})
	}
	slices.SortStableFunc(results, func(a, b domain.RiskAssessmentResult) int {
		if c := cmp.Compare(b.FinalScore, a.FinalScore); c != 0 {
			return c
		}
		return cmp.Compare(a.HazardID, b.HazardID)
	})
	return results, nil
}

// RecommendStrategies ranks the catalog's strategies for the active hazards.
func (e *Engine) RecommendStrategies(snap *catalog.Snapshot, activeHazards []string, chars domain.Characteristics, businessTypeID string) ([]domain.StrategyRecommendation, error) {
	if snap == nil {
		return []domain.StrategyRecommendation{}, fmt.Errorf("recommend strategies: nil catalog snapshot")
	}
	env := hazards.EnvironmentFor(snap, chars, e.logger)
	return e.ranker.Rank(snap, activeHazards, strategies.Profile{
		BusinessTypeID:  businessTypeID,
		Characteristics: chars,
		Coastal:         env.Coastal,
	})
}

// ActiveHazards returns the ids of the force-selected and selected results.
func ActiveHazards(results []domain.RiskAssessmentResult) []string {
	out := []string{}
	for _, r := range results {
		if r.Active() {
			out = append(out, r.HazardID)
		}
	}
	return out
}
