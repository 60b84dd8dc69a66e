// Package memory holds in-process adapters: a catalog loaded from a YAML
// file and assessment/job repositories kept in maps. They back local runs
// without Postgres and the service tests.
package memory

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"bizready/internal/domain"
)

// Catalog is the file format of a catalog export.
type Catalog struct {
	BusinessTypes       []domain.BusinessType              `yaml:"business_types"`
	Locations           []domain.Location                  `yaml:"locations"`
	Hazards             []domain.HazardDefinition          `yaml:"hazards"`
	BusinessTypeHazards []domain.BusinessTypeHazardProfile `yaml:"business_type_hazards"`
	LocationHazards     []domain.LocationHazardProfile     `yaml:"location_hazards"`
	MultiplierRules     []domain.MultiplierRule            `yaml:"multiplier_rules"`
	Strategies          []domain.StrategyDefinition        `yaml:"strategies"`
}

// LoadFile reads and validates a YAML catalog.
func LoadFile(path string) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	c, err := Parse(b)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog. Base levels must be one of the four catalog
// levels; rules are validated later, per snapshot.
func Parse(b []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalog{}, err
	}
	for _, p := range c.BusinessTypeHazards {
		if _, err := domain.ParseBaseLevel(string(p.BaseLevel)); err != nil {
			return Catalog{}, fmt.Errorf("business type %s hazard %s: %w", p.BusinessTypeID, p.HazardID, err)
		}
	}
	for _, p := range c.LocationHazards {
		if _, err := domain.ParseBaseLevel(string(p.Level)); err != nil {
			return Catalog{}, fmt.Errorf("location %s hazard %s: %w", p.LocationID, p.HazardID, err)
		}
	}
	return c, nil
}

// CatalogStore serves a Catalog. It is immutable and safe for concurrent use.
type CatalogStore struct {
	c Catalog
}

func NewCatalogStore(c Catalog) *CatalogStore { return &CatalogStore{c: c} }

func (s *CatalogStore) BusinessType(_ context.Context, id string) (domain.BusinessType, error) {
	i := slices.IndexFunc(s.c.BusinessTypes, func(bt domain.BusinessType) bool { return bt.ID == id })
	if i < 0 {
		return domain.BusinessType{}, domain.NotFound(domain.StageCatalog, "business_type", id)
	}
	return s.c.BusinessTypes[i], nil
}

func (s *CatalogStore) Location(_ context.Context, id string) (domain.Location, error) {
	i := slices.IndexFunc(s.c.Locations, func(l domain.Location) bool { return l.ID == id })
	if i < 0 {
		return domain.Location{}, domain.NotFound(domain.StageCatalog, "location", id)
	}
	return s.c.Locations[i], nil
}

func (s *CatalogStore) HazardsForBusinessType(_ context.Context, businessTypeID string) ([]domain.BusinessTypeHazardProfile, error) {
	out := []domain.BusinessTypeHazardProfile{}
	for _, p := range s.c.BusinessTypeHazards {
		if p.BusinessTypeID == businessTypeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogStore) LocationHazardOverrides(_ context.Context, locationID string) ([]domain.LocationHazardProfile, error) {
	out := []domain.LocationHazardProfile{}
	for _, p := range s.c.LocationHazards {
		if p.LocationID == locationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogStore) HazardDefinition(_ context.Context, hazardID string) (domain.HazardDefinition, error) {
	key := domain.CanonicalHazardKey(hazardID)
	for _, h := range s.c.Hazards {
		if h.Key() == key {
			return h, nil
		}
	}
	return domain.HazardDefinition{}, domain.NotFound(domain.StageCatalog, "hazard", hazardID)
}

func (s *CatalogStore) HazardDefinitions(context.Context) ([]domain.HazardDefinition, error) {
	return append([]domain.HazardDefinition{}, s.c.Hazards...), nil
}

func (s *CatalogStore) ActiveMultiplierRules(context.Context) ([]domain.MultiplierRule, error) {
	out := []domain.MultiplierRule{}
	for _, r := range s.c.MultiplierRules {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *CatalogStore) StrategyCatalog(context.Context) ([]domain.StrategyDefinition, error) {
	return append([]domain.StrategyDefinition{}, s.c.Strategies...), nil
}
