package pack

import (
	"errors"
	"fmt"

	"github.com/dshills/wimgen/internal/config/schema"
)

// Errors reported by the packers. Every *Error unwraps to exactly one of
// these, so callers can classify failures with errors.Is.
var (
	// ErrJSONParse indicates a source document is not a well-formed JSON object.
	ErrJSONParse = errors.New("invalid json format")

	// ErrSchema indicates a structural violation, such as a theme whose
	// colour set differs from the slot enumeration.
	ErrSchema = errors.New("schema violation")

	// ErrInvalidColor indicates a malformed hex colour value.
	ErrInvalidColor = errors.New("invalid color")

	// ErrUnknownField indicates a field the schema does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrMissingField indicates an absent required field.
	ErrMissingField = errors.New("missing field")

	// ErrTypeMismatch indicates a value of the wrong JSON type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrRange indicates an integer outside its allowed bounds.
	ErrRange = errors.New("value out of range")

	// ErrMalformedRecord indicates a packed file that cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNotFound indicates a lookup found no matching record.
	ErrNotFound = errors.New("record not found")
)

// Error describes a packing failure.
type Error struct {
	// Stage is the packer that failed.
	Stage Stage
	// Kind is one of the package sentinel errors.
	Kind error
	// Record names the offending entry: a theme name or extension group.
	Record string
	// Field names the offending field within the record, if any.
	Field string
	// Value is the offending value, if any.
	Value any
	// Message is the human-readable description.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the error kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(stage Stage, kind error, record, field string, format string, args ...any) *Error {
	return &Error{
		Stage:   stage,
		Kind:    kind,
		Record:  record,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// kindForCode maps a schema validation code to a packer error kind.
func kindForCode(code schema.ErrorCode) error {
	switch code {
	case schema.CodeTypeMismatch:
		return ErrTypeMismatch
	case schema.CodeOutOfRange:
		return ErrRange
	case schema.CodeRequiredMissing:
		return ErrMissingField
	case schema.CodeUnknownProperty:
		return ErrUnknownField
	default:
		return ErrSchema
	}
}

// firstViolation extracts the first validation error from a validator result.
func firstViolation(err error) *schema.ValidationError {
	var errs *schema.ValidationErrors
	if errors.As(err, &errs) {
		return errs.First()
	}
	return nil
}
