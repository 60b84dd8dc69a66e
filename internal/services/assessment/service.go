package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bizready/internal/catalog"
	"bizready/internal/domain"
	"bizready/internal/observability"
	"bizready/internal/ports"
)

// ErrInvalidRequest marks requests rejected before any catalog read.
var ErrInvalidRequest = errors.New("invalid assessment request")

// Deps wires the service to its collaborators. Plans, Events and Metrics
// are optional.
type Deps struct {
	Catalog ports.CatalogStore
	Engine  *Engine
	Repo    ports.AssessmentRepository
	Plans   ports.PlanStore
	Events  ports.EventPublisher
	Metrics *observability.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// Service stores assessment requests, runs them through the engine and
// publishes the resulting plan.
type Service struct {
	deps Deps
}

func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{deps: d}
}

// Enqueue validates and stores a request for the worker pool; the plan is
// produced by Process.
func (s *Service) Enqueue(ctx context.Context, req ports.AssessmentRequest) (string, error) {
	job, err := s.create(ctx, req, ports.DispatchQueued)
	return job.AssessmentID, err
}

// Start stores a request whose job is already running, for callers that
// process it inline.
func (s *Service) Start(ctx context.Context, req ports.AssessmentRequest) (ports.AssessmentJob, error) {
	return s.create(ctx, req, ports.DispatchInline)
}

func (s *Service) create(ctx context.Context, req ports.AssessmentRequest, dispatch ports.Dispatch) (ports.AssessmentJob, error) {
	req.BusinessTypeID = strings.TrimSpace(req.BusinessTypeID)
	req.LocationID = strings.TrimSpace(req.LocationID)
	if req.BusinessTypeID == "" {
		return ports.AssessmentJob{}, fmt.Errorf("%w: business_type_id is required", ErrInvalidRequest)
	}
	if req.Characteristics == nil {
		req.Characteristics = domain.Characteristics{}
	}
	if req.AsOf.IsZero() {
		req.AsOf = s.deps.Now().UTC()
	}
	return s.deps.Repo.Create(ctx, req, dispatch)
}

// Get returns the stored state of an assessment.
func (s *Service) Get(ctx context.Context, assessmentID string) (ports.AssessmentStatus, error) {
	return s.deps.Repo.Status(ctx, assessmentID)
}

// Process runs a stored request and persists its plan. It is the job
// processor used by both the worker pool and inline requests.
func (s *Service) Process(ctx context.Context, assessmentID string) error {
	req, err := s.deps.Repo.Request(ctx, assessmentID)
	if err != nil {
		return err
	}
	plan, err := s.Compute(ctx, assessmentID, req)
	if err != nil {
		return err
	}
	body, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan %s: %w", assessmentID, err)
	}
	if err := s.deps.Repo.SavePlan(ctx, assessmentID, body); err != nil {
		return fmt.Errorf("save plan %s: %w", assessmentID, err)
	}
	if s.deps.Plans != nil {
		if err := s.deps.Plans.PutPlan(ctx, plan, body); err != nil {
			return fmt.Errorf("store plan %s: %w", assessmentID, err)
		}
	}
	if s.deps.Events != nil {
		if err := s.deps.Events.PublishAssessmentCompleted(ctx, plan); err != nil {
			return fmt.Errorf("publish plan %s: %w", assessmentID, err)
		}
	}
	return nil
}

// Compute loads a catalog snapshot and runs both engine stages.
func (s *Service) Compute(ctx context.Context, assessmentID string, req ports.AssessmentRequest) (domain.Plan, error) {
	started := time.Now()
	log := s.deps.Logger.With(slog.String("assessment_id", assessmentID), slog.String("business_type_id", req.BusinessTypeID))

	snap, err := catalog.Load(ctx, s.deps.Catalog, catalog.Request{
		BusinessTypeID: req.BusinessTypeID,
		LocationID:     req.LocationID,
	}, log)
	if err != nil {
		s.deps.Metrics.ObserveAssessment(outcome(err), started, nil)
		return domain.Plan{}, err
	}
	if snap.RulesErr != nil {
		log.Warn("multiplier system unavailable, scoring without multipliers", slog.String("error", snap.RulesErr.Error()))
	}
	if n := len(snap.MissingHazards); n > 0 {
		log.Warn("hazard profile skips unknown hazards", slog.Int("count", n), slog.Any("hazard_ids", snap.MissingHazards))
	}

	risks, err := s.deps.Engine.AssessRisks(snap, req.Characteristics, req.AsOf)
	if err != nil {
		s.deps.Metrics.ObserveAssessment(outcome(err), started, nil)
		return domain.Plan{}, err
	}
	recs, recErr := s.deps.Engine.RecommendStrategies(snap, ActiveHazards(risks), req.Characteristics, req.BusinessTypeID)
	if recErr != nil && !strategyCatalogErr(recErr) {
		s.deps.Metrics.ObserveAssessment(outcome(recErr), started, risks)
		return domain.Plan{}, recErr
	}
	plan := buildPlan(assessmentID, req, snap, risks, recs)
	if recErr != nil {
		log.Warn("no strategy recommendations", slog.String("error", recErr.Error()))
		plan.RecommendationsError = recErr.Error()
		s.deps.Metrics.ObserveAssessment(outcome(recErr), started, risks)
		return plan, nil
	}
	s.deps.Metrics.ObserveAssessment("completed", started, risks)
	log.Info("assessment computed", slog.Int("hazards", len(risks)), slog.Int("recommendations", len(recs)))
	return plan, nil
}

// strategyCatalogErr reports errors that leave the risk half of a plan valid.
func strategyCatalogErr(err error) bool {
	return errors.Is(err, domain.ErrEmptyStrategyCatalog) || errors.Is(err, domain.ErrCatalogUnavailable)
}

// Recommend ranks strategies for an explicit active hazard set.
func (s *Service) Recommend(ctx context.Context, businessTypeID string, active []string, chars domain.Characteristics) ([]domain.StrategyRecommendation, error) {
	if strings.TrimSpace(businessTypeID) == "" {
		return nil, fmt.Errorf("%w: business_type_id is required", ErrInvalidRequest)
	}
	snap, err := catalog.LoadStrategies(ctx, s.deps.Catalog, businessTypeID, s.deps.Logger)
	if err != nil {
		return nil, err
	}
	for _, id := range active {
		if _, ok := snap.HazardByID(id); !ok {
			return nil, domain.NotFound(domain.StageStrategies, "hazard", id)
		}
	}
	return s.deps.Engine.RecommendStrategies(snap, active, chars, businessTypeID)
}

func buildPlan(id string, req ports.AssessmentRequest, snap *catalog.Snapshot, risks []domain.RiskAssessmentResult, recs []domain.StrategyRecommendation) domain.Plan {
	plan := domain.Plan{
		ID:              id,
		BusinessTypeID:  req.BusinessTypeID,
		LocationID:      req.LocationID,
		AsOf:            req.AsOf.Format(domain.DateLayout),
		Risks:           risks,
		Recommendations: nonNilRecs(recs),
		HazardNames:     make(map[string]domain.LocalizedText, len(risks)),
		StrategyTitles:  make(map[string]domain.LocalizedText, len(recs)),
	}
	for _, r := range risks {
		if h, ok := snap.HazardByID(r.HazardID); ok {
			plan.HazardNames[r.HazardID] = h.Name
		}
	}
	titles := make(map[string]domain.LocalizedText, len(snap.Strategies))
	for _, st := range snap.Strategies {
		titles[st.ID] = st.Title
	}
	for _, rec := range recs {
		plan.StrategyTitles[rec.StrategyID] = titles[rec.StrategyID]
	}
	return plan
}

func nonNilRecs(recs []domain.StrategyRecommendation) []domain.StrategyRecommendation {
	if recs == nil {
		return []domain.StrategyRecommendation{}
	}
	return recs
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return "catalog_unavailable"
	case errors.Is(err, domain.ErrEmptyStrategyCatalog):
		return "empty_strategy_catalog"
	default:
		return "error"
	}
}
