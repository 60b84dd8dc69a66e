package hazards

import (
	"log/slog"
	"time"

	"bizready/internal/catalog"
	"bizready/internal/domain"
)

const (
	coastalAmplifiedFactor = 1.5
	coastalFactor          = 1.2
	urbanAmplifiedFactor   = 1.2
	peakSeasonFactor       = 1.3

	// Raw scores live on a 0-100 scale; 10-100 maps to 1.0-10.0.
	minRawScore = 10
	maxRawScore = 100
)

var (
	coastalAmplified = domain.NewHazardKeySet("hurricane", "flood", "storm_surge", "tsunami")
	urbanAmplified   = domain.NewHazardKeySet("civil_unrest", "fire", "pandemic", "crime")
)

// Environment holds the location flags that amplify hazards.
type Environment struct {
	Coastal bool
	Urban   bool
}

// EnvironmentFor combines the location record with what the business reports
// about itself; either source can mark the site coastal or urban. A
// non-boolean location flag is ignored with a warning.
func EnvironmentFor(snap *catalog.Snapshot, chars domain.Characteristics, logger *slog.Logger) Environment {
	env := Environment{
		Coastal: locationFlag(chars, domain.CharLocationCoastal, logger),
		Urban:   locationFlag(chars, domain.CharLocationUrban, logger),
	}
	if snap.Location != nil {
		env.Coastal = env.Coastal || snap.Location.Coastal
		env.Urban = env.Urban || snap.Location.Urban
	}
	return env
}

func locationFlag(chars domain.Characteristics, key string, logger *slog.Logger) bool {
	v, _, err := chars.Bool(key)
	if err != nil {
		logger.Warn("ignoring location characteristic",
			slog.String("characteristic", key),
			slog.String("error", err.Error()))
		return false
	}
	return v
}

// Score is the calculator output for one hazard.
type Score struct {
	Hazard           domain.HazardDefinition
	BaseLevel        domain.BaseLevel
	EffectiveLevel   domain.BaseLevel
	BaseScore        float64
	LocationAdjusted float64
	HasLocationData  bool
	CoastalFactor    float64
	UrbanFactor      float64
	SeasonalFactor   float64
	Raw              float64
	Cascades         []string
}

// EnvironmentalFactor is the combined coastal and urban amplification.
func (s Score) EnvironmentalFactor() float64 {
	return domain.RoundScore(s.CoastalFactor * s.UrbanFactor)
}

// Normalized returns the raw score on the 0-10 scale.
func (s Score) Normalized() float64 { return domain.RoundScore(s.Raw / 10) }

// Calculate scores every hazard linked to the snapshot's business type.
// Results follow the catalog order of the business type's hazard profile.
func Calculate(snap *catalog.Snapshot, env Environment, asOf time.Time) []Score {
	month := int(asOf.Month())
	out := make([]Score, 0, len(snap.Profiles))
	for _, p := range snap.Profiles {
		key := p.Hazard.Key()
		s := Score{
			Hazard:         p.Hazard,
			BaseLevel:      p.BaseLevel,
			EffectiveLevel: p.BaseLevel,
			CoastalFactor:  1,
			UrbanFactor:    1,
			SeasonalFactor: 1,
		}
		// A location override replaces the business type level outright.
		if lvl, ok := snap.Overrides[key]; ok {
			s.EffectiveLevel = lvl
			s.HasLocationData = true
		}
		s.BaseScore = p.BaseLevel.Anchor()
		s.LocationAdjusted = s.EffectiveLevel.Anchor()

		if env.Coastal {
			s.CoastalFactor = coastalFactor
			if coastalAmplified.Has(key) {
				s.CoastalFactor = coastalAmplifiedFactor
			}
		}
		if env.Urban && urbanAmplified.Has(key) {
			s.UrbanFactor = urbanAmplifiedFactor
		}
		if p.Hazard.InPeakSeason(month) {
			s.SeasonalFactor = peakSeasonFactor
		}

		raw := s.LocationAdjusted * s.CoastalFactor * s.UrbanFactor * s.SeasonalFactor
		s.Raw = domain.Clamp(domain.RoundScore(raw), minRawScore, maxRawScore)
		s.Cascades = cascades(snap, p.Hazard)
		out = append(out, s)
	}
	return out
}

// cascades keeps the declared cascading hazards that exist in the catalog,
// in declaration order, using the catalog's spelling of each id.
func cascades(snap *catalog.Snapshot, h domain.HazardDefinition) []string {
	out := []string{}
	seen := map[domain.HazardKey]bool{h.Key(): true}
	for _, id := range h.CascadingRisks {
		def, ok := snap.HazardByID(id)
		if !ok || seen[def.Key()] {
			continue
		}
		seen[def.Key()] = true
		out = append(out, def.ID)
	}
	return out
}
