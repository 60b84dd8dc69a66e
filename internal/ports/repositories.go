package ports

import (
	"context"

	"bizready/internal/domain"
)

// CatalogStore is the read-only catalog the engine snapshots per assessment.
// List methods return empty slices when no rows match. Errors wrap
// domain.ErrNotFound for unknown ids and domain.ErrCatalogUnavailable for
// store failures.
type CatalogStore interface {
	BusinessType(ctx context.Context, id string) (domain.BusinessType, error)
	Location(ctx context.Context, id string) (domain.Location, error)
	HazardsForBusinessType(ctx context.Context, businessTypeID string) ([]domain.BusinessTypeHazardProfile, error)
	LocationHazardOverrides(ctx context.Context, locationID string) ([]domain.LocationHazardProfile, error)
	HazardDefinition(ctx context.Context, hazardID string) (domain.HazardDefinition, error)
	HazardDefinitions(ctx context.Context) ([]domain.HazardDefinition, error)
	ActiveMultiplierRules(ctx context.Context) ([]domain.MultiplierRule, error)
	StrategyCatalog(ctx context.Context) ([]domain.StrategyDefinition, error)
}

// AssessmentRepository stores assessment requests and their plan documents.
type AssessmentRepository interface {
	Create(ctx context.Context, req AssessmentRequest, dispatch Dispatch) (AssessmentJob, error)
	Request(ctx context.Context, assessmentID string) (AssessmentRequest, error)
	Status(ctx context.Context, assessmentID string) (AssessmentStatus, error)
	SavePlan(ctx context.Context, assessmentID string, plan []byte) error
}
