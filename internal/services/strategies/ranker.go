package strategies

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"bizready/internal/catalog"
	"bizready/internal/domain"
)

const (
	baseEffectiveness = 0.5
	baseCost          = 0.5

	powerBonus   = 0.3
	waterBonus   = 0.2
	coastalBonus = 0.2

	highDependencyPercent = 40
)

// Keyword vocabulary, matched case-insensitively as substrings.
var (
	powerKeywords    = []string{"generator", "backup power"}
	waterKeywords    = []string{"water"}
	floodKeywords    = []string{"elevated", "flood"}
	expensiveWords   = []string{"generator", "backup"}
	cheapWords       = []string{"training", "plan"}
	evacuateKeywords = []string{"evacuation", "relocate"}
	shelterKeywords  = []string{"shelter", "secure"}
)

// Profile is what the ranker knows about the business.
type Profile struct {
	BusinessTypeID  string
	Characteristics domain.Characteristics
	Coastal         bool
}

// Ranker selects and orders mitigation strategies for the active hazards.
type Ranker struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{logger: logger}
}

type candidate struct {
	rec   domain.StrategyRecommendation
	keys  domain.HazardKeySet
	title string
}

// Rank returns the recommendations for the active hazard ids. An unreadable
// or empty strategy catalog yields an empty list and a typed error.
func (r *Ranker) Rank(snap *catalog.Snapshot, active []string, p Profile) ([]domain.StrategyRecommendation, error) {
	recs := []domain.StrategyRecommendation{}
	if snap.StrategiesErr != nil {
		return recs, &domain.Error{Kind: domain.ErrCatalogUnavailable, Stage: domain.StageStrategies, Err: snap.StrategiesErr}
	}
	if len(snap.Strategies) == 0 {
		return recs, &domain.Error{Kind: domain.ErrEmptyStrategyCatalog, Stage: domain.StageStrategies}
	}

	activeIDs := make(map[domain.HazardKey]string, len(active))
	for _, id := range active {
		activeIDs[domain.CanonicalHazardKey(id)] = id
	}

	var cands []*candidate
	for _, st := range snap.Strategies {
		if !appliesToBusiness(st.StrategyDefinition, p.BusinessTypeID) {
			continue
		}
		matched := domain.HazardKeySet{}
		var matchedIDs []string
		for _, h := range st.Hazards {
			k := domain.CanonicalHazardKey(h)
			id, ok := activeIDs[k]
			if !ok || matched.Has(k) {
				continue
			}
			matched[k] = struct{}{}
			matchedIDs = append(matchedIDs, id)
		}
		if len(matchedIDs) == 0 {
			continue
		}
		c := &candidate{keys: matched, title: strings.ToLower(st.Title.English())}
		c.rec = r.score(st, c.title, p)
		c.rec.MatchedHazards = matchedIDs
		cands = append(cands, c)
	}

	markConflicts(cands)

	for _, c := range cands {
		recs = append(recs, c.rec)
	}
	slices.SortStableFunc(recs, compareRecommendations)
	return recs, nil
}

func (r *Ranker) score(st catalog.Strategy, title string, p Profile) domain.StrategyRecommendation {
	text := title + " " + strings.ToLower(st.Category)

	eff := baseEffectiveness
	if r.highDependency(p.Characteristics, domain.CharPowerDependency) && containsAny(text, powerKeywords) {
		eff += powerBonus
	}
	if r.highDependency(p.Characteristics, domain.CharWaterDependency) && containsAny(text, waterKeywords) {
		eff += waterBonus
	}
	if p.Coastal && containsAny(text, floodKeywords) {
		eff += coastalBonus
	}
	eff = domain.RoundScore(domain.Clamp(eff, 0, 1))

	size := r.sizeFactor(p.Characteristics)
	cost := baseCost * size
	if containsAny(title, expensiveWords) {
		cost *= 2
	}
	if containsAny(title, cheapWords) {
		cost *= 0.5
	}
	cost = domain.RoundScore(cost)
	roi := domain.RoundScore(eff / cost)

	prio := bucket(eff, roi)
	if st.PriorityHint == domain.PriorityCritical {
		prio = domain.PriorityCritical
	}

	return domain.StrategyRecommendation{
		StrategyID:    st.ID,
		Effectiveness: eff,
		Cost:          cost,
		ROI:           roi,
		Priority:      prio,
		Conflicts:     []string{},
		IsRecommended: st.IsRecommended,
		EstimatedCost: st.CostEstimate.Mul(decimal.NewFromFloat(size)).Round(2),
	}
}

func bucket(eff, roi float64) domain.Priority {
	switch {
	case roi > 2.0 || eff > 0.8:
		return domain.PriorityHigh
	case roi > 1.0 || eff > 0.6:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// highDependency reports whether a 0-100 dependency percentage is at least
// highDependencyPercent.
func (r *Ranker) highDependency(chars domain.Characteristics, key string) bool {
	v, ok, err := chars.Number(key)
	if err != nil {
		r.logger.Warn("ignoring dependency characteristic", slog.String("characteristic", key), slog.String("error", err.Error()))
		return false
	}
	return ok && v >= highDependencyPercent
}

func (r *Ranker) sizeFactor(chars domain.Characteristics) float64 {
	staff, ok, err := chars.Number(domain.CharStaffCount)
	if err != nil {
		r.logger.Warn("ignoring staff count", slog.String("error", err.Error()))
		return 1
	}
	switch {
	case !ok:
		return 1
	case staff > 50:
		return 2.0
	case staff > 10:
		return 1.5
	default:
		return 1
	}
}

// markConflicts flags evacuate-vs-shelter pairs that cover a common active
// hazard; a business cannot follow both as primary guidance.
func markConflicts(cands []*candidate) {
	for i, a := range cands {
		for _, b := range cands[i+1:] {
			opposed := (containsAny(a.title, evacuateKeywords) && containsAny(b.title, shelterKeywords)) ||
				(containsAny(a.title, shelterKeywords) && containsAny(b.title, evacuateKeywords))
			if !opposed || !overlaps(a.keys, b.keys) {
				continue
			}
			a.rec.Conflicts = append(a.rec.Conflicts, b.rec.StrategyID)
			b.rec.Conflicts = append(b.rec.Conflicts, a.rec.StrategyID)
		}
	}
	for _, c := range cands {
		slices.Sort(c.rec.Conflicts)
	}
}

// compareRecommendations orders recommended strategies first, then by
// priority, effectiveness and ROI, all descending. Strategy id breaks ties.
func compareRecommendations(a, b domain.StrategyRecommendation) int {
	for _, c := range []int{
		compareBool(b.IsRecommended, a.IsRecommended),
		cmp.Compare(b.Priority.Rank(), a.Priority.Rank()),
		cmp.Compare(b.Effectiveness, a.Effectiveness),
		cmp.Compare(b.ROI, a.ROI),
		cmp.Compare(a.StrategyID, b.StrategyID),
	} {
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func appliesToBusiness(st domain.StrategyDefinition, businessTypeID string) bool {
	if st.AppliesToAllBusinessTypes() {
		return true
	}
	for _, bt := range st.BusinessTypes {
		if strings.EqualFold(bt, businessTypeID) {
			return true
		}
	}
	return false
}

func overlaps(a, b domain.HazardKeySet) bool {
	for k := range a {
		if b.Has(k) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
