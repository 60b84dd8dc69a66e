package multipliers

import (
	"errors"
	"fmt"
	"log/slog"

	"bizready/internal/catalog"
	"bizready/internal/domain"
)

const maxScore = 10

// Outcome is the adjusted score for one hazard and the rules that fired, in
// evaluation order.
type Outcome struct {
	Score       float64
	Applied     []domain.AppliedMultiplier
	Unavailable bool
}

// Engine applies admin-defined multiplier rules to normalized (0-10) scores.
type Engine struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Apply runs every snapshot rule that targets hazard against chars. When the
// rule store could not be read the base score is returned untouched with
// Unavailable set.
func (e *Engine) Apply(snap *catalog.Snapshot, hazard domain.HazardKey, base float64, chars domain.Characteristics) Outcome {
	out := Outcome{Score: base, Applied: []domain.AppliedMultiplier{}}
	if snap.RulesErr != nil {
		out.Unavailable = true
		return out
	}

	score := base
	for _, r := range snap.Rules {
		if !r.Keys.Has(hazard) {
			continue
		}
		holds, err := Evaluate(r.Condition, chars, r.Characteristic)
		if err != nil {
			e.logEvalError(r, hazard, err)
			continue
		}
		if !holds {
			continue
		}
		score *= r.Factor
		out.Applied = append(out.Applied, domain.AppliedMultiplier{
			RuleID:    r.ID,
			Name:      r.Name,
			Factor:    r.Factor,
			Reasoning: r.Reasoning,
		})
	}
	out.Score = domain.Clamp(domain.RoundScore(score), 0, maxScore)
	return out
}

// Evaluate reports whether a condition holds for the characteristic key.
// A missing characteristic never satisfies a condition. A value of the wrong
// type returns an ErrInvalidCharacteristic error.
func Evaluate(c domain.Condition, chars domain.Characteristics, key string) (bool, error) {
	switch cond := c.(type) {
	case domain.BooleanCondition:
		v, ok, err := chars.Bool(key)
		if err != nil || !ok {
			return false, err
		}
		return v, nil
	case domain.ThresholdCondition:
		v, ok, err := chars.Number(key)
		if err != nil || !ok {
			return false, err
		}
		return v >= cond.Threshold, nil
	case domain.RangeCondition:
		v, ok, err := chars.Number(key)
		if err != nil || !ok {
			return false, err
		}
		return v >= cond.Min && v <= cond.Max, nil
	default:
		return false, domain.MalformedRule("", fmt.Errorf("unsupported condition %T", c))
	}
}

func (e *Engine) logEvalError(r catalog.Rule, hazard domain.HazardKey, err error) {
	attrs := []any{
		slog.String("rule_id", r.ID),
		slog.String("hazard", string(hazard)),
		slog.String("characteristic", r.Characteristic),
		slog.String("error", err.Error()),
	}
	if errors.Is(err, domain.ErrInvalidCharacteristic) {
		e.logger.Warn("characteristic has wrong type for rule condition", attrs...)
		return
	}
	e.logger.Warn("skipping malformed multiplier rule", attrs...)
}
