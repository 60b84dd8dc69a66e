package httpadapter_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "bizready/internal/adapters/http"
	"bizready/internal/adapters/memory"
	"bizready/internal/domain"
	"bizready/internal/observability"
	"bizready/internal/services/assessment"
	"bizready/internal/services/thresholds"
)

const catalogYAML = `
business_types:
  - {id: restaurant, name: {en: Restaurant}}
locations:
  - {id: inland, name: Inland}
hazards:
  - {id: power_outage, name: {en: Power outage}, category: technological}
  - {id: hurricane, name: {en: Hurricane}, category: natural, peak_months: [8, 9, 10]}
business_type_hazards:
  - {business_type_id: restaurant, hazard_id: power_outage, base_level: medium}
  - {business_type_id: restaurant, hazard_id: hurricane, base_level: high}
multiplier_rules:
  - {id: perishables, characteristic: perishable_goods, condition: boolean, factor: 1.4, hazards: [power_outage]}
strategies:
  - {id: backup-generator, title: {en: Install backup generator}, hazards: [power_outage], cost_estimate: "4500.00"}
`

type testServer struct {
	*httptest.Server
	store *memory.AssessmentStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := memory.Parse([]byte(catalogYAML))
	require.NoError(t, err)
	engine, err := assessment.NewEngine(thresholds.Thresholds{ForcePreselect: 7, MinPreselect: 4}, quiet)
	require.NoError(t, err)
	metrics := observability.NewMetrics()
	store := memory.NewAssessmentStore()
	svc := assessment.New(assessment.Deps{
		Catalog: memory.NewCatalogStore(c),
		Engine:  engine,
		Repo:    store,
		Metrics: metrics,
		Logger:  quiet,
		Now:     func() time.Time { return time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC) },
	})
	srv := httpadapter.New(svc, store, svc,
		httpadapter.WithMetrics(metrics.Handler()),
		httpadapter.WithLogger(quiet),
		httpadapter.WithInlineTimeout(5*time.Second))
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestPostAssessment_Sync(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodPost, "/assessments", `{
		"business_type_id": "restaurant",
		"location_id": "inland",
		"characteristics": {"perishable_goods": true}
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var plan domain.Plan
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Equal(t, "/assessments/"+plan.ID, resp.Header.Get("Location"))
	assert.Equal(t, "2026-03-10", plan.AsOf)
	require.Len(t, plan.Risks, 2)
	for _, r := range plan.Risks {
		assert.Equal(t, 7.0, r.FinalScore, r.HazardID)
		assert.Equal(t, domain.DispositionForceSelected, r.Disposition, r.HazardID)
	}
	require.Len(t, plan.Recommendations, 1)
	assert.Equal(t, "backup-generator", plan.Recommendations[0].StrategyID)

	resp, body = ts.do(t, http.MethodGet, "/assessments/"+plan.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Status string      `json:"status"`
		Plan   domain.Plan `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, plan.ID, got.Plan.ID)
}

func TestPostAssessment_AsOfDate(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodPost, "/assessments", `{
		"business_type_id": "restaurant",
		"location_id": "inland",
		"as_of": "2026-09-01"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var plan domain.Plan
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Equal(t, "2026-09-01", plan.AsOf)
	assert.Equal(t, "hurricane", plan.Risks[0].HazardID, "peak season ranks hurricane first")
	assert.Equal(t, 1.3, plan.Risks[0].SeasonalFactor)
}

func TestPostAssessment_Async(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodPost, "/assessments?async=true", `{"business_type_id": "restaurant"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(body))

	var accepted struct {
		ID string `json:"assessment_id"`
	}
	require.NoError(t, json.Unmarshal(body, &accepted))
	require.NotEmpty(t, accepted.ID)

	resp, body = ts.do(t, http.MethodGet, "/assessments/"+accepted.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"`+accepted.ID+`","status":"queued"}`, string(body))

	job, found, err := ts.store.ClaimNext(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, accepted.ID, job.AssessmentID)
}

func TestPostAssessment_Errors(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct {
		name string
		path string
		body string
		code int
	}{
		{"malformed body", "/assessments", `{`, http.StatusBadRequest},
		{"missing business type", "/assessments", `{"location_id": "inland"}`, http.StatusBadRequest},
		{"bad async flag", "/assessments?async=maybe", `{"business_type_id": "restaurant"}`, http.StatusBadRequest},
		{"unknown business type", "/assessments", `{"business_type_id": "casino"}`, http.StatusNotFound},
		{"unknown location", "/assessments", `{"business_type_id": "restaurant", "location_id": "atlantis"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.code, resp.StatusCode, string(body))
			var e map[string]string
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e["error"])
		})
	}
}

func TestGetAssessment_Unknown(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := ts.do(t, http.MethodGet, "/assessments/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostRecommendations(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodPost, "/recommendations", `{
		"business_type_id": "restaurant",
		"active_hazards": ["power_outage"],
		"characteristics": {"staff_count": 12}
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var got struct {
		Recommendations []domain.StrategyRecommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "backup-generator", got.Recommendations[0].StrategyID)

	resp, _ = ts.do(t, http.MethodPost, "/recommendations", `{"active_hazards": ["power_outage"]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPost, "/recommendations", `{"business_type_id": "restaurant", "active_hazards": ["meteor_strike"]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "meteor_strike")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := ts.do(t, http.MethodPost, "/assessments", `{"business_type_id": "restaurant"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `bizready_assessments_total{outcome="completed"} 1`)
}
