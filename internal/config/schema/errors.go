package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode categorizes a validation failure so callers can map it onto
// their own error taxonomy.
type ErrorCode uint8

const (
	// CodeInvalid is a failure without a more specific category.
	CodeInvalid ErrorCode = iota
	// CodeTypeMismatch indicates the JSON type of a value is wrong.
	CodeTypeMismatch
	// CodeOutOfRange indicates a numeric value is outside its bounds.
	CodeOutOfRange
	// CodePatternMismatch indicates a string does not match its pattern.
	CodePatternMismatch
	// CodeRequiredMissing indicates a required property is absent.
	CodeRequiredMissing
	// CodeUnknownProperty indicates a property the schema does not declare.
	CodeUnknownProperty
	// CodeInvalidEnum indicates a value outside the allowed set.
	CodeInvalidEnum
	// CodeLength indicates a string or array length violation.
	CodeLength
)

// String returns a short name for the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeTypeMismatch:
		return "type_mismatch"
	case CodeOutOfRange:
		return "out_of_range"
	case CodePatternMismatch:
		return "pattern_mismatch"
	case CodeRequiredMissing:
		return "required_missing"
	case CodeUnknownProperty:
		return "unknown_property"
	case CodeInvalidEnum:
		return "invalid_enum"
	case CodeLength:
		return "length"
	default:
		return "invalid"
	}
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	// Path is the dot-separated path to the invalid value.
	Path string

	// Message describes what's wrong.
	Message string

	// Value is the invalid value (may be nil).
	Value any

	// Expected describes what was expected.
	Expected string

	// Code categorizes the failure.
	Code ErrorCode
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Property returns the last segment of the error path, with any array index
// stripped.
func (e *ValidationError) Property() string {
	p := e.Path
	if i := strings.IndexByte(p, '['); i >= 0 {
		p = p[:i]
	}
	if i := strings.LastIndexByte(p, '.'); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// AddError adds an existing ValidationError.
func (e *ValidationErrors) AddError(err *ValidationError) {
	e.Errors = append(e.Errors, err)
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first recorded error, or nil.
func (e *ValidationErrors) First() *ValidationError {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0]
}

// AsError returns nil if no errors, otherwise returns self.
func (e *ValidationErrors) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// NewTypeError creates a validation error for type mismatch.
func NewTypeError(path string, expected string, actual any) *ValidationError {
	return &ValidationError{
		Path:     path,
		Message:  fmt.Sprintf("expected %s, got %s", expected, TypeName(actual)),
		Value:    actual,
		Expected: expected,
		Code:     CodeTypeMismatch,
	}
}

// NewEnumError creates a validation error for invalid enum value.
func NewEnumError(path string, value any, allowed []any) *ValidationError {
	return &ValidationError{
		Path:     path,
		Message:  fmt.Sprintf("value %v is not one of allowed values: %v", value, allowed),
		Value:    value,
		Expected: fmt.Sprintf("one of %v", allowed),
		Code:     CodeInvalidEnum,
	}
}

// NewRangeError creates a validation error for out-of-range value.
func NewRangeError(path string, value any, min, max *float64) *ValidationError {
	var expected string
	switch {
	case min != nil && max != nil:
		expected = fmt.Sprintf("between %v and %v", *min, *max)
	case min != nil:
		expected = fmt.Sprintf(">= %v", *min)
	case max != nil:
		expected = fmt.Sprintf("<= %v", *max)
	default:
		expected = "valid range"
	}
	return &ValidationError{
		Path:     path,
		Message:  fmt.Sprintf("value %v is out of range", value),
		Value:    value,
		Expected: expected,
		Code:     CodeOutOfRange,
	}
}

// NewPatternError creates a validation error for pattern mismatch.
func NewPatternError(path string, value, pattern string) *ValidationError {
	return &ValidationError{
		Path:     path,
		Message:  fmt.Sprintf("value %q does not match pattern: %s", value, pattern),
		Value:    value,
		Expected: fmt.Sprintf("pattern: %s", pattern),
		Code:     CodePatternMismatch,
	}
}

// NewRequiredError creates a validation error for missing required field.
func NewRequiredError(path string) *ValidationError {
	return &ValidationError{
		Path:    path,
		Message: "required field is missing",
		Code:    CodeRequiredMissing,
	}
}

// NewUnknownPropertyError creates a validation error for unknown property.
func NewUnknownPropertyError(path string) *ValidationError {
	return &ValidationError{
		Path:    path,
		Message: "unknown property",
		Code:    CodeUnknownProperty,
	}
}

// TypeName returns the JSON type name of a decoded value. Numbers decoded as
// json.Number report "integer" when their literal has no fraction or exponent.
func TypeName(v any) string {
	switch val := v.(type) {
	case nil:
		return TypeNameNull
	case bool:
		return TypeNameBoolean
	case string:
		return TypeNameString
	case json.Number:
		if isIntegerLiteral(string(val)) {
			return TypeNameInteger
		}
		return TypeNameNumber
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeNameInteger
	case float32, float64:
		return TypeNameNumber
	case []any, []string:
		return TypeNameArray
	case map[string]any:
		return TypeNameObject
	default:
		return fmt.Sprintf("%T", v)
	}
}
