package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Well-known characteristic keys. The fact sheet is open-ended; rules may
// reference any key an administrator chooses.
const (
	CharLocationCoastal        = "location_coastal"
	CharLocationUrban          = "location_urban"
	CharSupplyChainComplex     = "supply_chain_complex"
	CharPerishableGoods        = "perishable_goods"
	CharPhysicalAssetIntensive = "physical_asset_intensive"
	CharTourismShare           = "tourism_share"
	CharPowerDependency        = "power_dependency"
	CharDigitalDependency      = "digital_dependency"
	CharWaterDependency        = "water_dependency"
	CharStaffCount             = "staff_count"
)

// Characteristics is the flat fact sheet about one business. Values are
// booleans or numbers; a missing key or a nil value means "unknown".
type Characteristics map[string]any

// Lookup returns the value for key; nil values count as missing.
func (c Characteristics) Lookup(key string) (any, bool) {
	v, ok := c[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Bool returns the boolean value of key. ok is false when the key is
// missing; err wraps ErrInvalidCharacteristic when the value is not a bool.
func (c Characteristics) Bool(key string) (v bool, ok bool, err error) {
	raw, ok := c.Lookup(key)
	if !ok {
		return false, false, nil
	}
	b, isBool := raw.(bool)
	if !isBool {
		return false, true, invalidCharacteristic(key, "boolean", raw)
	}
	return b, true, nil
}

// Number returns the numeric value of key with the same ok/err contract as Bool.
func (c Characteristics) Number(key string) (v float64, ok bool, err error) {
	raw, ok := c.Lookup(key)
	if !ok {
		return 0, false, nil
	}
	var f float64
	switch n := raw.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, perr := n.Float64()
		if perr != nil {
			return 0, true, invalidCharacteristic(key, "number", raw)
		}
		f = parsed
	default:
		return 0, true, invalidCharacteristic(key, "number", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, invalidCharacteristic(key, "number", raw)
	}
	return f, true, nil
}

func invalidCharacteristic(key, want string, got any) error {
	return &Error{
		Kind:   ErrInvalidCharacteristic,
		Stage:  StageMultipliers,
		Entity: "characteristic",
		ID:     key,
		Err:    fmt.Errorf("want %s, got %T", want, got),
	}
}
