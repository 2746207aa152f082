package pexconfig

import "errors"

// Declaration errors returned by the registration step.
// They are wrapped with the offending unit, type and field,
// use errors.Is to test for them.
var (
	ErrNotStruct          = errors.New("control object must be a struct")
	ErrEmptyUnit          = errors.New("empty unit name")
	ErrUnitConflict       = errors.New("conflicting registration")
	ErrDuplicateName      = errors.New("duplicate field name")
	ErrInvalidName        = errors.New("invalid field name")
	ErrMissingDoc         = errors.New("missing field documentation")
	ErrTypeMismatch       = errors.New("type signature does not match the field type")
	ErrAccessorMismatch   = errors.New("accessor does not match the field tag")
	ErrUnexported         = errors.New("declared field is not exported")
	ErrNotByValue         = errors.New("nested control object must be held by value")
	ErrUnknownProvenance  = errors.New("unknown provenance unit")
	ErrProvenanceMismatch = errors.New("provenance unit registers another type")
)

// Errors returned when accessing control object instances.
var (
	ErrUnknownField = errors.New("unknown field")
	ErrWrongType    = errors.New("control object of the wrong type")
)
