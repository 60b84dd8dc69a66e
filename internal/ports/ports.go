package ports

import (
	"context"
	"time"

	"bizready/internal/domain"
)

// AssessmentRequest is one (business type, location, characteristics) triple.
type AssessmentRequest struct {
	BusinessTypeID  string                 `json:"business_type_id"`
	LocationID      string                 `json:"location_id,omitempty"`
	Characteristics domain.Characteristics `json:"characteristics"`
	AsOf            time.Time              `json:"as_of"`
}

// AssessmentStatus is the lifecycle state of a stored assessment.
type AssessmentStatus struct {
	ID     string
	Status string // queued|running|completed|failed
	Error  string
	Plan   []byte
}

// Assessor tracks assessments. Plans are produced by the job processor.
// Enqueue hands the job to the worker pool; Start returns a running job the
// caller must process itself.
type Assessor interface {
	Enqueue(ctx context.Context, req AssessmentRequest) (assessmentID string, err error)
	Start(ctx context.Context, req AssessmentRequest) (AssessmentJob, error)
	Get(ctx context.Context, assessmentID string) (AssessmentStatus, error)
	Recommend(ctx context.Context, businessTypeID string, activeHazards []string, chars domain.Characteristics) ([]domain.StrategyRecommendation, error)
}

// PlanStore keeps the rendered plan document for report generation.
type PlanStore interface {
	PutPlan(ctx context.Context, plan domain.Plan, body []byte) error
}

// EventPublisher announces completed assessments.
type EventPublisher interface {
	PublishAssessmentCompleted(ctx context.Context, plan domain.Plan) error
}
