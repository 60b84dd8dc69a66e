package domain

import "fmt"

// Sentinel error kinds. Match with errors.Is.
var (
	ErrNotFound              = errString("not found")
	ErrInvalidCharacteristic = errString("invalid characteristic")
	ErrCatalogUnavailable    = errString("catalog unavailable")
	ErrMalformedRule         = errString("malformed rule")
	ErrEmptyStrategyCatalog  = errString("strategy catalog empty")
)

type errString string

func (e errString) Error() string { return string(e) }

// Stage names the engine stage an error came from.
type Stage string

const (
	StageCatalog     Stage = "catalog"
	StageHazards     Stage = "hazards"
	StageMultipliers Stage = "multipliers"
	StageThresholds  Stage = "thresholds"
	StageStrategies  Stage = "strategies"
	StageStore       Stage = "store"
)

// Error carries the kind plus enough context (stage, entity id) for a caller
// to decide whether to retry, skip or surface it.
type Error struct {
	Kind   error
	Stage  Stage
	Entity string
	ID     string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	if e.Entity != "" {
		msg += fmt.Sprintf(" (%s %q)", e.Entity, e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound reports an unknown catalog entity.
func NotFound(stage Stage, entity, id string) error {
	return &Error{Kind: ErrNotFound, Stage: stage, Entity: entity, ID: id}
}

// Unavailable wraps a transient catalog store failure.
func Unavailable(stage Stage, err error) error {
	return &Error{Kind: ErrCatalogUnavailable, Stage: stage, Err: err}
}

// MalformedRule reports a multiplier rule that cannot be evaluated.
func MalformedRule(ruleID string, err error) error {
	return &Error{Kind: ErrMalformedRule, Stage: StageMultipliers, Entity: "rule", ID: ruleID, Err: err}
}
