package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// HazardKey is the canonical form of a hazard identifier. Catalog data spells
// the same hazard as "power_outage", "PowerOutage" or "Power Outage"; all of
// them fold to "poweroutage".
type HazardKey string

var keyStripper = strings.NewReplacer("_", "", " ", "")

// CanonicalHazardKey folds case and strips underscores and spaces.
func CanonicalHazardKey(id string) HazardKey {
	// Casers keep state and are not safe to share between goroutines.
	folded := cases.Fold().String(strings.TrimSpace(id))
	return HazardKey(keyStripper.Replace(folded))
}

// HazardKeySet is a set of canonical hazard ids.
type HazardKeySet map[HazardKey]struct{}

func NewHazardKeySet(ids ...string) HazardKeySet {
	s := make(HazardKeySet, len(ids))
	for _, id := range ids {
		if k := CanonicalHazardKey(id); k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

func (s HazardKeySet) Has(k HazardKey) bool {
	_, ok := s[k]
	return ok
}
