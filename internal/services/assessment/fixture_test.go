package assessment_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bizready/internal/adapters/memory"
)

var (
	quiet = slog.New(slog.NewTextHandler(io.Discard, nil))
	march = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
)

const fixture = `
business_types:
  - id: restaurant
    name: {en: Restaurant, es: Restaurante}
locations:
  - {id: inland, name: Inland}
  - {id: coast, name: Coast, coastal: true}
hazards:
  - id: power_outage
    name: {en: Power outage}
    category: technological
  - id: hurricane
    name: {en: Hurricane}
    category: natural
    peak_months: [8, 9, 10]
    cascading_risks: [power_outage]
  - id: fire
    name: {en: Fire}
    category: technological
business_type_hazards:
  - {business_type_id: restaurant, hazard_id: power_outage, base_level: medium}
  - {business_type_id: restaurant, hazard_id: hurricane, base_level: high}
  - {business_type_id: restaurant, hazard_id: fire, base_level: low}
multiplier_rules:
  - id: perishables
    name: Perishable goods
    characteristic: perishable_goods
    condition: boolean
    factor: 1.4
    hazards: [power_outage]
    priority: 1
strategies:
  - id: backup-generator
    title: {en: Install backup generator}
    hazards: [power_outage]
    cost_estimate: "4500.00"
    is_recommended: true
  - id: evacuation-plan
    title: {en: Staff evacuation plan}
    hazards: [hurricane]
    cost_estimate: "250.00"
  - id: shelter-in-place
    title: {en: Shelter in place kit}
    hazards: [hurricane]
    cost_estimate: "600.00"
`

func fixtureStore(t *testing.T) *memory.CatalogStore {
	t.Helper()
	c, err := memory.Parse([]byte(fixture))
	require.NoError(t, err)
	return memory.NewCatalogStore(c)
}
