package strategies_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizready/internal/catalog"
	"bizready/internal/domain"
	"bizready/internal/services/strategies"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func strategy(id, title string, hazards ...string) domain.StrategyDefinition {
	return domain.StrategyDefinition{
		ID:           id,
		Title:        domain.LocalizedText{EN: title},
		Hazards:      hazards,
		CostEstimate: decimal.RequireFromString("100.00"),
	}
}

func catalogOf(defs ...domain.StrategyDefinition) *catalog.Snapshot {
	return catalog.Build(catalog.Data{Strategies: defs}, quiet)
}

func byID(recs []domain.StrategyRecommendation) map[string]domain.StrategyRecommendation {
	out := make(map[string]domain.StrategyRecommendation, len(recs))
	for _, r := range recs {
		out[r.StrategyID] = r
	}
	return out
}

func ids(recs []domain.StrategyRecommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.StrategyID)
	}
	return out
}

func TestRank_SelectsAndOrders(t *testing.T) {
	generator := strategy("backup-generator", "Install backup generator", "power_outage")
	generator.IsRecommended = true
	retailOnly := strategy("shutters", "Storm shutters", "hurricane")
	retailOnly.BusinessTypes = []string{"retail"}

	snap := catalogOf(
		generator,
		strategy("evacuation-plan", "Staff evacuation plan", "hurricane", "fire"),
		strategy("shelter-in-place", "Shelter in place kit", "Hurricane"),
		strategy("elevate-stock", "Elevated stock storage", "flood"),
		retailOnly,
	)

	recs, err := strategies.New(quiet).Rank(snap, []string{"hurricane", "power_outage"}, strategies.Profile{
		BusinessTypeID:  "restaurant",
		Characteristics: domain.Characteristics{domain.CharPowerDependency: 80},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"backup-generator", "evacuation-plan", "shelter-in-place"}, ids(recs))

	got := byID(recs)
	gen := got["backup-generator"]
	assert.Equal(t, 0.8, gen.Effectiveness)
	assert.Equal(t, 1.0, gen.Cost)
	assert.Equal(t, 0.8, gen.ROI)
	assert.Equal(t, domain.PriorityMedium, gen.Priority)
	assert.Equal(t, []string{"power_outage"}, gen.MatchedHazards)

	evac := got["evacuation-plan"]
	assert.Equal(t, 0.5, evac.Effectiveness)
	assert.Equal(t, 0.25, evac.Cost)
	assert.Equal(t, 2.0, evac.ROI)
	assert.Equal(t, domain.PriorityMedium, evac.Priority)
	assert.Equal(t, []string{"hurricane"}, evac.MatchedHazards)

	shelter := got["shelter-in-place"]
	assert.Equal(t, domain.PriorityLow, shelter.Priority)
}

func TestRank_EvacuateShelterConflict(t *testing.T) {
	snap := catalogOf(
		strategy("evacuation-plan", "Staff evacuation plan", "hurricane"),
		strategy("shelter-in-place", "Shelter in place kit", "hurricane"),
		strategy("fire-drill", "Fire evacuation drill", "fire"),
		strategy("secure-premises", "Secure the premises", "flood"),
	)

	recs, err := strategies.New(quiet).Rank(snap, []string{"hurricane", "fire"}, strategies.Profile{BusinessTypeID: "restaurant"})
	require.NoError(t, err)

	got := byID(recs)
	assert.Equal(t, []string{"shelter-in-place"}, got["evacuation-plan"].Conflicts)
	assert.Equal(t, []string{"evacuation-plan"}, got["shelter-in-place"].Conflicts)
	assert.Empty(t, got["fire-drill"].Conflicts, "no shared hazard, no conflict")
	assert.NotNil(t, got["fire-drill"].Conflicts)
	assert.NotContains(t, got, "secure-premises")
}

func TestRank_EffectivenessBonuses(t *testing.T) {
	snap := catalogOf(
		strategy("water", "Water storage tanks", "drought"),
		strategy("elevate", "Elevated shelving", "drought"),
	)
	r := strategies.New(quiet)

	recs, err := r.Rank(snap, []string{"drought"}, strategies.Profile{
		Characteristics: domain.Characteristics{domain.CharWaterDependency: 45},
		Coastal:         true,
	})
	require.NoError(t, err)
	got := byID(recs)
	assert.Equal(t, 0.7, got["water"].Effectiveness)
	assert.Equal(t, 0.7, got["elevate"].Effectiveness)

	for _, pct := range []int{30, 9} {
		recs, err = r.Rank(snap, []string{"drought"}, strategies.Profile{
			Characteristics: domain.Characteristics{domain.CharWaterDependency: pct},
		})
		require.NoError(t, err)
		got = byID(recs)
		assert.Equal(t, 0.5, got["water"].Effectiveness, "%d%% is not a high dependency", pct)
		assert.Equal(t, 0.5, got["elevate"].Effectiveness)
	}

	recs, err = r.Rank(snap, []string{"drought"}, strategies.Profile{
		Characteristics: domain.Characteristics{domain.CharWaterDependency: 40},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.7, byID(recs)["water"].Effectiveness, "cutoff is inclusive")
}

func TestRank_SizeFactorAndEstimatedCost(t *testing.T) {
	snap := catalogOf(strategy("kit", "First aid kit", "fire"))
	r := strategies.New(quiet)

	cases := []struct {
		staff any
		cost  float64
		est   string
	}{
		{nil, 0.5, "100"},
		{5, 0.5, "100"},
		{20, 0.75, "150"},
		{60, 1.0, "200"},
	}
	for _, c := range cases {
		chars := domain.Characteristics{}
		if c.staff != nil {
			chars[domain.CharStaffCount] = c.staff
		}
		recs, err := r.Rank(snap, []string{"fire"}, strategies.Profile{Characteristics: chars})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, c.cost, recs[0].Cost, "staff %v", c.staff)
		assert.True(t, decimal.RequireFromString(c.est).Equal(recs[0].EstimatedCost), "staff %v: got %s", c.staff, recs[0].EstimatedCost)
	}
}

func TestRank_CriticalHint(t *testing.T) {
	s := strategy("sprinklers", "Sprinkler system", "fire")
	s.PriorityHint = domain.PriorityCritical
	recs, err := strategies.New(quiet).Rank(catalogOf(s, strategy("kit", "Fire extinguisher", "fire")), []string{"fire"}, strategies.Profile{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "sprinklers", recs[0].StrategyID)
	assert.Equal(t, domain.PriorityCritical, recs[0].Priority)
}

func TestRank_NoActiveHazards(t *testing.T) {
	recs, err := strategies.New(quiet).Rank(catalogOf(strategy("kit", "Kit", "fire")), nil, strategies.Profile{})
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRank_EmptyCatalog(t *testing.T) {
	recs, err := strategies.New(quiet).Rank(catalogOf(), []string{"fire"}, strategies.Profile{})
	assert.ErrorIs(t, err, domain.ErrEmptyStrategyCatalog)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRank_UnavailableCatalog(t *testing.T) {
	snap := catalog.Build(catalog.Data{StrategiesErr: domain.Unavailable(domain.StageStrategies, errors.New("timeout"))}, quiet)
	recs, err := strategies.New(quiet).Rank(snap, []string{"fire"}, strategies.Profile{})
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.NotErrorIs(t, err, domain.ErrEmptyStrategyCatalog)
	assert.Empty(t, recs)
}

func TestRank_Deterministic(t *testing.T) {
	snap := catalogOf(
		strategy("b", "Kit B", "fire"),
		strategy("a", "Kit A", "fire"),
		strategy("c", "Kit C", "fire"),
	)
	r := strategies.New(quiet)
	first, err := r.Rank(snap, []string{"fire"}, strategies.Profile{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(first))
	for i := 0; i < 5; i++ {
		again, err := r.Rank(snap, []string{"fire"}, strategies.Profile{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
