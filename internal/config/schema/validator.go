package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Validator validates decoded JSON values against a schema.
//
// Objects are checked in a fixed order so that the first reported error is
// deterministic: unknown properties, then missing required properties, then
// property types, then per-property constraints. Within each pass properties
// are visited in sorted order.
type Validator struct {
	schema *Schema

	// Options
	strictMode       bool // Fail on unknown properties
	collectAllErrors bool // Continue validation after first error

	// Pattern cache
	patternCache sync.Map // map[string]*regexp.Regexp
}

// NewValidator creates a validator for the given schema.
func NewValidator(schema *Schema) *Validator {
	return &Validator{
		schema:           schema,
		collectAllErrors: true,
	}
}

// WithStrictMode enables strict mode (unknown properties are errors).
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// WithCollectAllErrors sets whether to collect all errors or stop at first.
func (v *Validator) WithCollectAllErrors(collect bool) *Validator {
	v.collectAllErrors = collect
	return v
}

// Validate validates a decoded value against the schema. The returned error,
// if any, is a *ValidationErrors.
func (v *Validator) Validate(value any) error {
	return v.ValidateAt("", value)
}

// ValidateAt validates a value, reporting errors relative to path.
func (v *Validator) ValidateAt(path string, value any) error {
	if v.schema == nil {
		return nil
	}

	errs := &ValidationErrors{}
	v.validateValue(path, value, v.schema, errs)
	return errs.AsError()
}

// done reports whether validation should stop adding errors.
func (v *Validator) done(errs *ValidationErrors) bool {
	return !v.collectAllErrors && errs.HasErrors()
}

// validateValue validates a value against a schema.
func (v *Validator) validateValue(path string, value any, schema *Schema, errs *ValidationErrors) {
	if schema == nil || v.done(errs) {
		return
	}
	if !v.validateType(path, value, schema, errs) {
		return
	}
	v.validateConstraints(path, value, schema, errs)
}

// validateType reports a type error and returns false if value does not match
// any of the schema's types. An untyped schema accepts everything.
func (v *Validator) validateType(path string, value any, schema *Schema, errs *ValidationErrors) bool {
	if schema.Type.IsEmpty() {
		return true
	}
	for _, typ := range schema.Type.Types {
		if v.matchesType(value, typ) {
			return true
		}
	}
	errs.AddError(NewTypeError(path, schema.Type.String(), value))
	return false
}

// validateConstraints checks enum and type-specific constraints. The value is
// assumed to have passed the type check.
func (v *Validator) validateConstraints(path string, value any, schema *Schema, errs *ValidationErrors) {
	if len(schema.Enum) > 0 {
		v.validateEnum(path, value, schema.Enum, errs)
		if v.done(errs) {
			return
		}
	}

	switch val := value.(type) {
	case string:
		v.validateString(path, val, schema, errs)
	case map[string]any:
		v.validateObject(path, val, schema, errs)
	default:
		if isNumber(value) {
			v.validateNumber(path, value, schema, errs)
		} else if arr := toSlice(value); arr != nil {
			v.validateArray(path, arr, schema, errs)
		}
	}
}

// matchesType checks if a value matches a JSON Schema type.
func (v *Validator) matchesType(value any, typ string) bool {
	switch typ {
	case TypeNameString:
		_, ok := value.(string)
		return ok
	case TypeNameNumber:
		return isNumber(value)
	case TypeNameInteger:
		return isInteger(value)
	case TypeNameBoolean:
		_, ok := value.(bool)
		return ok
	case TypeNameArray:
		return toSlice(value) != nil
	case TypeNameObject:
		_, ok := value.(map[string]any)
		return ok
	case TypeNameNull:
		return value == nil
	default:
		return false
	}
}

// validateString validates string-specific constraints.
func (v *Validator) validateString(path string, value string, schema *Schema, errs *ValidationErrors) {
	if schema.MinLength != nil && len(value) < *schema.MinLength {
		errs.AddError(&ValidationError{
			Path:    path,
			Message: fmt.Sprintf("string length %d is less than minimum %d", len(value), *schema.MinLength),
			Value:   value,
			Code:    CodeLength,
		})
	}

	if schema.Pattern != "" && !v.done(errs) {
		if !v.matchPattern(value, schema.Pattern) {
			errs.AddError(NewPatternError(path, value, schema.Pattern))
		}
	}
}

// validateNumber validates numeric bounds.
func (v *Validator) validateNumber(path string, value any, schema *Schema, errs *ValidationErrors) {
	f := toFloat64(value)

	if (schema.Minimum != nil && f < *schema.Minimum) || (schema.Maximum != nil && f > *schema.Maximum) {
		errs.AddError(NewRangeError(path, value, schema.Minimum, schema.Maximum))
	}
}

// validateArray validates array constraints.
func (v *Validator) validateArray(path string, arr []any, schema *Schema, errs *ValidationErrors) {
	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		errs.AddError(&ValidationError{
			Path:    path,
			Message: fmt.Sprintf("array has %d items, minimum is %d", len(arr), *schema.MinItems),
			Code:    CodeLength,
		})
	}

	if schema.Items != nil {
		for i, item := range arr {
			if v.done(errs) {
				return
			}
			v.validateValue(fmt.Sprintf("%s[%d]", path, i), item, schema.Items, errs)
		}
	}
}

// validateObject validates object constraints in the order documented on
// Validator.
func (v *Validator) validateObject(path string, obj map[string]any, schema *Schema, errs *ValidationErrors) {
	names := sortedKeys(obj)

	if v.strictMode && !schema.AllowsAdditionalProperties() {
		for _, name := range names {
			if v.done(errs) {
				return
			}
			if schema.Property(name) == nil {
				errs.AddError(NewUnknownPropertyError(joinPath(path, name)))
			}
		}
	}

	for _, req := range schema.Required {
		if v.done(errs) {
			return
		}
		if _, exists := obj[req]; !exists {
			errs.AddError(NewRequiredError(joinPath(path, req)))
		}
	}

	typed := make([]string, 0, len(names))
	for _, name := range names {
		if v.done(errs) {
			return
		}
		propSchema := schema.Property(name)
		if propSchema == nil {
			continue
		}
		if v.validateType(joinPath(path, name), obj[name], propSchema, errs) {
			typed = append(typed, name)
		}
	}

	for _, name := range typed {
		if v.done(errs) {
			return
		}
		v.validateConstraints(joinPath(path, name), obj[name], schema.Property(name), errs)
	}
}

// validateEnum checks if value is in the allowed enum values.
func (v *Validator) validateEnum(path string, value any, allowed []any, errs *ValidationErrors) {
	for _, a := range allowed {
		if valuesEqual(value, a) {
			return
		}
	}
	errs.AddError(NewEnumError(path, value, allowed))
}

// matchPattern checks if a string matches a regex pattern.
func (v *Validator) matchPattern(value, pattern string) bool {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(value)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}

	v.patternCache.Store(pattern, re)
	return re.MatchString(value)
}

// Helper functions

func isNumber(v any) bool {
	switch v.(type) {
	case json.Number, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

// isInteger reports whether v is an integer. Decoded JSON numbers must be
// written without a fraction or exponent; 4.0 is not an integer.
func isInteger(v any) bool {
	switch val := v.(type) {
	case json.Number:
		return isIntegerLiteral(string(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func isIntegerLiteral(s string) bool {
	return s != "" && !strings.ContainsAny(s, ".eE")
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case json.Number:
		f, _ := val.Float64()
		return f
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return 0
	}
}

func toSlice(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case []string:
		result := make([]any, len(val))
		for i, s := range val {
			result[i] = s
		}
		return result
	default:
		return nil
	}
}

func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if isNumber(a) && isNumber(b) {
		return toFloat64(a) == toFloat64(b)
	}
	return a == b
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
