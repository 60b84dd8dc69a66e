// Package catalog builds the immutable per-assessment view of catalog data.
// Every engine call receives a Snapshot instead of reaching for a shared
// client or cache, so assessments can run in parallel without locking.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"bizready/internal/domain"
	"bizready/internal/ports"
)

// Rule is a validated multiplier rule with its hazard ids canonicalized.
type Rule struct {
	domain.MultiplierRule
	Keys domain.HazardKeySet
}

// Strategy is a strategy definition with its hazard ids canonicalized.
type Strategy struct {
	domain.StrategyDefinition
	Keys domain.HazardKeySet
}

// Profile is a business type hazard link resolved against the hazard catalog.
type Profile struct {
	Hazard    domain.HazardDefinition
	BaseLevel domain.BaseLevel
}

// Snapshot is read-only after Build.
type Snapshot struct {
	BusinessType domain.BusinessType
	Location     *domain.Location

	// Profiles holds one entry per hazard, in catalog order.
	Profiles []Profile
	// MissingHazards lists profile hazard ids absent from the hazard catalog.
	MissingHazards []string
	Overrides      map[domain.HazardKey]domain.BaseLevel
	Hazards        map[domain.HazardKey]domain.HazardDefinition

	// Rules is sorted by ascending priority, then id.
	Rules []Rule
	// RulesErr is set when the rule store could not be read.
	RulesErr error

	Strategies    []Strategy
	StrategiesErr error
}

// Data is the raw material of a Snapshot as read from a store.
type Data struct {
	BusinessType  domain.BusinessType
	Location      *domain.Location
	Profiles      []domain.BusinessTypeHazardProfile
	Overrides     []domain.LocationHazardProfile
	Hazards       []domain.HazardDefinition
	Rules         []domain.MultiplierRule
	RulesErr      error
	Strategies    []domain.StrategyDefinition
	StrategiesErr error
}

// Request selects what to load.
type Request struct {
	BusinessTypeID string
	LocationID     string
}

// Load reads everything an assessment needs. Unknown business type or
// location ids abort with a NotFound error. A failing rule or strategy read
// is recorded on the snapshot instead, so the multiplier stage can fail open
// and the ranker can report it.
func Load(ctx context.Context, store ports.CatalogStore, req Request, logger *slog.Logger) (*Snapshot, error) {
	var (
		d   Data
		err error
	)
	d.BusinessType, err = store.BusinessType(ctx, req.BusinessTypeID)
	if err != nil {
		return nil, classify(err)
	}
	if req.LocationID != "" {
		loc, err := store.Location(ctx, req.LocationID)
		if err != nil {
			return nil, classify(err)
		}
		d.Location = &loc
		if d.Overrides, err = store.LocationHazardOverrides(ctx, req.LocationID); err != nil {
			return nil, classify(err)
		}
	}
	if d.Profiles, err = store.HazardsForBusinessType(ctx, req.BusinessTypeID); err != nil {
		return nil, classify(err)
	}
	if d.Hazards, err = store.HazardDefinitions(ctx); err != nil {
		return nil, classify(err)
	}
	d.Rules, d.RulesErr = store.ActiveMultiplierRules(ctx)
	if d.RulesErr != nil {
		d.RulesErr = classify(d.RulesErr)
	}
	d.Strategies, d.StrategiesErr = store.StrategyCatalog(ctx)
	if d.StrategiesErr != nil {
		d.StrategiesErr = classify(d.StrategiesErr)
	}
	return Build(d, logger), nil
}

// LoadStrategies reads only what the strategy ranker needs, plus the hazard
// catalog so callers can resolve the hazard ids they pass in.
func LoadStrategies(ctx context.Context, store ports.CatalogStore, businessTypeID string, logger *slog.Logger) (*Snapshot, error) {
	var (
		d   Data
		err error
	)
	if d.BusinessType, err = store.BusinessType(ctx, businessTypeID); err != nil {
		return nil, classify(err)
	}
	if d.Hazards, err = store.HazardDefinitions(ctx); err != nil {
		return nil, classify(err)
	}
	d.Strategies, d.StrategiesErr = store.StrategyCatalog(ctx)
	if d.StrategiesErr != nil {
		d.StrategiesErr = classify(d.StrategiesErr)
	}
	return Build(d, logger), nil
}

// Build canonicalizes ids and validates rules. It never fails: malformed
// rules and profiles pointing at unknown hazards are dropped and logged.
func Build(d Data, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Snapshot{
		BusinessType:  d.BusinessType,
		Location:      d.Location,
		Overrides:     make(map[domain.HazardKey]domain.BaseLevel, len(d.Overrides)),
		Hazards:       make(map[domain.HazardKey]domain.HazardDefinition, len(d.Hazards)),
		RulesErr:      d.RulesErr,
		StrategiesErr: d.StrategiesErr,
	}

	for _, h := range d.Hazards {
		if k := h.Key(); k != "" {
			s.Hazards[k] = h
		}
	}
	for _, o := range d.Overrides {
		k := domain.CanonicalHazardKey(o.HazardID)
		if prev, ok := s.Overrides[k]; !ok || o.Level.Higher(prev) {
			s.Overrides[k] = o.Level
		}
	}

	index := make(map[domain.HazardKey]int, len(d.Profiles))
	for _, p := range d.Profiles {
		k := domain.CanonicalHazardKey(p.HazardID)
		def, ok := s.Hazards[k]
		if !ok {
			s.MissingHazards = append(s.MissingHazards, p.HazardID)
			logger.Warn("hazard profile references unknown hazard",
				slog.String("business_type_id", d.BusinessType.ID),
				slog.String("hazard_id", p.HazardID))
			continue
		}
		if i, seen := index[k]; seen {
			if p.BaseLevel.Higher(s.Profiles[i].BaseLevel) {
				s.Profiles[i].BaseLevel = p.BaseLevel
			}
			continue
		}
		index[k] = len(s.Profiles)
		s.Profiles = append(s.Profiles, Profile{Hazard: def, BaseLevel: p.BaseLevel})
	}

	for _, r := range d.Rules {
		if !r.Active {
			continue
		}
		if err := r.Validate(); err != nil {
			logger.Warn("skipping multiplier rule",
				slog.String("rule_id", r.ID),
				slog.String("error", domain.MalformedRule(r.ID, err).Error()))
			continue
		}
		s.Rules = append(s.Rules, Rule{MultiplierRule: r, Keys: domain.NewHazardKeySet(r.Hazards...)})
	}
	slices.SortStableFunc(s.Rules, func(a, b Rule) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for _, st := range d.Strategies {
		s.Strategies = append(s.Strategies, Strategy{StrategyDefinition: st, Keys: domain.NewHazardKeySet(st.Hazards...)})
	}
	return s
}

// HazardByID resolves any spelling of a hazard id.
func (s *Snapshot) HazardByID(id string) (domain.HazardDefinition, bool) {
	h, ok := s.Hazards[domain.CanonicalHazardKey(id)]
	return h, ok
}

func classify(err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrCatalogUnavailable) {
		return err
	}
	return domain.Unavailable(domain.StageCatalog, err)
}
