package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bizready/internal/domain"
)

// CatalogStore

func (db *DB) BusinessType(ctx context.Context, id string) (domain.BusinessType, error) {
	var bt domain.BusinessType
	err := db.Pool.QueryRow(ctx, `SELECT id, name FROM business_types WHERE id = $1`, id).Scan(&bt.ID, &bt.Name)
	if err != nil {
		return bt, catalogErr(err, "business_type", id)
	}
	return bt, nil
}

func (db *DB) Location(ctx context.Context, id string) (domain.Location, error) {
	var loc domain.Location
	err := db.Pool.QueryRow(ctx, `SELECT id, name, coastal, urban FROM locations WHERE id = $1`, id).
		Scan(&loc.ID, &loc.Name, &loc.Coastal, &loc.Urban)
	if err != nil {
		return loc, catalogErr(err, "location", id)
	}
	return loc, nil
}

func (db *DB) HazardsForBusinessType(ctx context.Context, businessTypeID string) ([]domain.BusinessTypeHazardProfile, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT business_type_id, hazard_id, base_level
        FROM business_type_hazards
        WHERE business_type_id = $1
        ORDER BY position
    `, businessTypeID)
	if err != nil {
		return nil, domain.Unavailable(domain.StageCatalog, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BusinessTypeHazardProfile, error) {
		var p domain.BusinessTypeHazardProfile
		err := row.Scan(&p.BusinessTypeID, &p.HazardID, &p.BaseLevel)
		return p, err
	})
	if err != nil {
		return nil, domain.Unavailable(domain.StageCatalog, err)
	}
	return nonNil(out), nil
}

func (db *DB) LocationHazardOverrides(ctx context.Context, locationID string) ([]domain.LocationHazardProfile, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT location_id, hazard_id, level
        FROM location_hazards
        WHERE location_id = $1
        ORDER BY hazard_id
    `, locationID)
	if err != nil {
		return nil, domain.Unavailable(domain.StageCatalog, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LocationHazardProfile, error) {
		var p domain.LocationHazardProfile
		err := row.Scan(&p.LocationID, &p.HazardID, &p.Level)
		return p, err
	})
	if err != nil {
		return nil, domain.Unavailable(domain.StageCatalog, err)
	}
	return nonNil(out), nil
}

const hazardColumns = `id, name, category, default_frequency, default_impact, peak_months, warning_time, geographic_scope, cascading_risks`

func scanHazard(row pgx.Row) (domain.HazardDefinition, error) {
	var h domain.HazardDefinition
	err := row.Scan(&h.ID, &h.Name, &h.Category, &h.DefaultFrequency, &h.DefaultImpact,
		&h.PeakMonths, &h.WarningTime, &h.GeographicScope, &h.CascadingRisks)
	return h, err
}

func (db *DB) HazardDefinition(ctx context.Context, hazardID string) (domain.HazardDefinition, error) {
	h, err := scanHazard(db.Pool.QueryRow(ctx, `SELECT `+hazardColumns+` FROM hazards WHERE id = $1`, hazardID))
	if err != nil {
		return h, catalogErr(err, "hazard", hazardID)
	}
	return h, nil
}

func (db *DB) HazardDefinitions(ctx context.Context) ([]domain.HazardDefinition, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+hazardColumns+` FROM hazards ORDER BY id`)
	if err != nil {
		return nil, domain.Unavailable(domain.StageCatalog, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HazardDefinition, error) {
		return scanHazard(row)
	})
	if err != nil {
		return nil, domain.Unavailable(domain.StageCatalog, err)
	}
	return nonNil(out), nil
}

// ActiveMultiplierRules returns rules as stored. A rule whose condition or
// hazard list cannot be decoded comes back with the broken part empty, so
// snapshot validation drops just that rule.
func (db *DB) ActiveMultiplierRules(ctx context.Context) ([]domain.MultiplierRule, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, name, characteristic, condition, threshold, min_value, max_value,
               factor, hazards, priority, reasoning, active
        FROM multiplier_rules
        WHERE active
        ORDER BY priority, id
    `)
	if err != nil {
		return nil, domain.Unavailable(domain.StageMultipliers, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MultiplierRule, error) {
		var (
			r             domain.MultiplierRule
			kind          string
			thr, min, max *float64
			hazards       []byte
		)
		if err := row.Scan(&r.ID, &r.Name, &r.Characteristic, &kind, &thr, &min, &max,
			&r.Factor, &hazards, &r.Priority, &r.Reasoning, &r.Active); err != nil {
			return r, err
		}
		if cond, err := domain.NewCondition(kind, thr, min, max); err == nil {
			r.Condition = cond
		}
		if err := json.Unmarshal(hazards, &r.Hazards); err != nil {
			r.Hazards = nil
		}
		return r, nil
	})
	if err != nil {
		return nil, domain.Unavailable(domain.StageMultipliers, err)
	}
	return nonNil(out), nil
}

func (db *DB) StrategyCatalog(ctx context.Context) ([]domain.StrategyDefinition, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, title, category, hazards, business_types, cost_tier, cost_estimate::text,
               effectiveness_rating, priority_hint, is_recommended
        FROM strategies
        ORDER BY id
    `)
	if err != nil {
		return nil, domain.Unavailable(domain.StageStrategies, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StrategyDefinition, error) {
		var (
			s    domain.StrategyDefinition
			cost string
		)
		if err := row.Scan(&s.ID, &s.Title, &s.Category, &s.Hazards, &s.BusinessTypes, &s.CostTier, &cost,
			&s.EffectivenessRating, &s.PriorityHint, &s.IsRecommended); err != nil {
			return s, err
		}
		d, err := decimal.NewFromString(cost)
		if err != nil {
			return s, err
		}
		s.CostEstimate = d
		return s, nil
	})
	if err != nil {
		return nil, domain.Unavailable(domain.StageStrategies, err)
	}
	return nonNil(out), nil
}

func catalogErr(err error, entity, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(domain.StageCatalog, entity, id)
	}
	return domain.Unavailable(domain.StageCatalog, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
