package assessment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizready/internal/adapters/memory"
	"bizready/internal/domain"
	"bizready/internal/observability"
	"bizready/internal/ports"
	"bizready/internal/services/assessment"
	"bizready/internal/workers/assessrunner"
)

type recordingPlans struct {
	mu    sync.Mutex
	plans []domain.Plan
	err   error
}

func (r *recordingPlans) PutPlan(_ context.Context, plan domain.Plan, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.plans = append(r.plans, plan)
	return nil
}

type recordingEvents struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingEvents) PublishAssessmentCompleted(_ context.Context, plan domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, plan.ID)
	return nil
}

type harness struct {
	svc    *assessment.Service
	store  *memory.AssessmentStore
	plans  *recordingPlans
	events *recordingEvents
}

func newHarness(t *testing.T, catalogStore ports.CatalogStore) *harness {
	t.Helper()
	h := &harness{store: memory.NewAssessmentStore(), plans: &recordingPlans{}, events: &recordingEvents{}}
	h.svc = assessment.New(assessment.Deps{
		Catalog: catalogStore,
		Engine:  newEngine(t),
		Repo:    h.store,
		Plans:   h.plans,
		Events:  h.events,
		Metrics: observability.NewMetrics(),
		Logger:  quiet,
		Now:     func() time.Time { return march },
	})
	return h
}

func (h *harness) run(t *testing.T, req ports.AssessmentRequest) (string, error) {
	t.Helper()
	job, err := h.svc.Start(context.Background(), req)
	require.NoError(t, err)
	return job.AssessmentID, assessrunner.ProcessInline(context.Background(), h.store, h.svc, job)
}

func TestService_EndToEnd(t *testing.T) {
	h := newHarness(t, fixtureStore(t))

	id, err := h.run(t, ports.AssessmentRequest{
		BusinessTypeID:  "restaurant",
		LocationID:      "inland",
		Characteristics: domain.Characteristics{domain.CharPerishableGoods: true},
	})
	require.NoError(t, err)

	st, err := h.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "completed", st.Status)

	var plan domain.Plan
	require.NoError(t, json.Unmarshal(st.Plan, &plan))
	assert.Equal(t, id, plan.ID)
	assert.Equal(t, "2026-03-10", plan.AsOf)
	require.Len(t, plan.Risks, 3)
	assert.Equal(t, "hurricane", plan.Risks[0].HazardID)
	assert.Equal(t, "Hurricane", plan.HazardNames["hurricane"].EN)
	require.Len(t, plan.Recommendations, 3)
	assert.Equal(t, "Install backup generator", plan.StrategyTitles["backup-generator"].EN)
	assert.Empty(t, plan.RecommendationsError)

	require.Len(t, h.plans.plans, 1)
	assert.Equal(t, id, h.plans.plans[0].ID)
	assert.Equal(t, []string{id}, h.events.ids)
}

func TestService_EnqueueValidates(t *testing.T) {
	h := newHarness(t, fixtureStore(t))
	_, err := h.svc.Enqueue(context.Background(), ports.AssessmentRequest{BusinessTypeID: "  "})
	assert.ErrorIs(t, err, assessment.ErrInvalidRequest)
}

func TestService_EnqueueDefaultsAsOf(t *testing.T) {
	h := newHarness(t, fixtureStore(t))
	id, err := h.svc.Enqueue(context.Background(), ports.AssessmentRequest{BusinessTypeID: "restaurant"})
	require.NoError(t, err)

	req, err := h.store.Request(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, march, req.AsOf)
	assert.NotNil(t, req.Characteristics)
}

func TestService_UnknownBusinessType(t *testing.T) {
	h := newHarness(t, fixtureStore(t))

	id, err := h.run(t, ports.AssessmentRequest{BusinessTypeID: "spaceport"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	st, err := h.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "failed", st.Status)
	assert.Contains(t, st.Error, "spaceport")
	assert.Empty(t, st.Plan)
	assert.Empty(t, h.events.ids)
}

func TestService_UnknownLocation(t *testing.T) {
	h := newHarness(t, fixtureStore(t))
	_, err := h.run(t, ports.AssessmentRequest{BusinessTypeID: "restaurant", LocationID: "atlantis"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type emptyStrategies struct{ ports.CatalogStore }

func (emptyStrategies) StrategyCatalog(context.Context) ([]domain.StrategyDefinition, error) {
	return []domain.StrategyDefinition{}, nil
}

func TestService_EmptyStrategyCatalogKeepsRisks(t *testing.T) {
	h := newHarness(t, emptyStrategies{fixtureStore(t)})

	id, err := h.run(t, ports.AssessmentRequest{BusinessTypeID: "restaurant"})
	require.NoError(t, err)

	st, err := h.svc.Get(context.Background(), id)
	require.NoError(t, err)
	var plan domain.Plan
	require.NoError(t, json.Unmarshal(st.Plan, &plan))
	assert.Len(t, plan.Risks, 3)
	assert.NotNil(t, plan.Recommendations)
	assert.Empty(t, plan.Recommendations)
	assert.Contains(t, plan.RecommendationsError, "strategy catalog empty")
}

func TestService_PlanStoreFailureFailsJob(t *testing.T) {
	h := newHarness(t, fixtureStore(t))
	h.plans.err = errors.New("bucket gone")

	id, err := h.run(t, ports.AssessmentRequest{BusinessTypeID: "restaurant"})
	require.Error(t, err)

	st, err := h.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "failed", st.Status)
	assert.Contains(t, st.Error, "bucket gone")
}

func TestService_Recommend(t *testing.T) {
	h := newHarness(t, fixtureStore(t))

	recs, err := h.svc.Recommend(context.Background(), "restaurant", []string{"Hurricane"}, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"Hurricane"}, recs[0].MatchedHazards)

	_, err = h.svc.Recommend(context.Background(), "", nil, nil)
	assert.ErrorIs(t, err, assessment.ErrInvalidRequest)

	_, err = h.svc.Recommend(context.Background(), "spaceport", []string{"fire"}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_RecommendUnknownHazard(t *testing.T) {
	h := newHarness(t, fixtureStore(t))

	recs, err := h.svc.Recommend(context.Background(), "restaurant", []string{"hurricane", "meteor_strike"}, nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, recs)
	assert.Contains(t, err.Error(), "meteor_strike")

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.StageStrategies, derr.Stage)
}

func TestService_ComputeWarnsOnMissingHazards(t *testing.T) {
	c, err := memory.Parse([]byte(fixture))
	require.NoError(t, err)
	c.BusinessTypeHazards = append(c.BusinessTypeHazards, domain.BusinessTypeHazardProfile{
		BusinessTypeID: "restaurant", HazardID: "locusts", BaseLevel: domain.BaseLow,
	})
	var buf bytes.Buffer
	svc := assessment.New(assessment.Deps{
		Catalog: memory.NewCatalogStore(c),
		Engine:  newEngine(t),
		Repo:    memory.NewAssessmentStore(),
		Metrics: observability.NewMetrics(),
		Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
		Now:     func() time.Time { return march },
	})

	plan, err := svc.Compute(context.Background(), "x", ports.AssessmentRequest{BusinessTypeID: "restaurant", AsOf: march})
	require.NoError(t, err)
	assert.Len(t, plan.Risks, 3)
	assert.Contains(t, buf.String(), "hazard profile skips unknown hazards")
	assert.Contains(t, buf.String(), "count=1")
}

func TestService_Deterministic(t *testing.T) {
	h := newHarness(t, fixtureStore(t))
	req := ports.AssessmentRequest{
		BusinessTypeID:  "restaurant",
		LocationID:      "coast",
		Characteristics: domain.Characteristics{domain.CharPerishableGoods: true},
		AsOf:            march,
	}
	a, err := h.svc.Compute(context.Background(), "x", req)
	require.NoError(t, err)
	b, err := h.svc.Compute(context.Background(), "x", req)
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))
}
