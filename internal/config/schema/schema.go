// Package schema provides JSON Schema-style validation for wimgen source
// documents.
//
// Only the subset of JSON Schema the packers need is implemented: types,
// object properties, required and additional properties, array items,
// numeric bounds, minimum string and array lengths, patterns, and enums.
package schema

import "fmt"

// Schema describes the structure and constraints of a decoded JSON value.
type Schema struct {
	// Type is the JSON type (string, number, integer, boolean, array, object, null).
	Type SchemaType

	// Properties defines object properties (for type: object).
	Properties map[string]*Schema

	// AdditionalProperties controls whether extra properties are allowed.
	AdditionalProperties *bool

	// Required lists required property names.
	Required []string

	// Items defines the schema for array elements.
	Items *Schema

	// Enum lists allowed values.
	Enum []any

	// Minimum for numeric types.
	Minimum *float64

	// Maximum for numeric types.
	Maximum *float64

	// MinLength for strings.
	MinLength *int

	// Pattern is a regex pattern for strings.
	Pattern string

	// MinItems for arrays.
	MinItems *int
}

// SchemaType lists the JSON types a value may have.
type SchemaType struct {
	Types []string
}

// Is checks if the schema type includes the given type.
func (t SchemaType) Is(typ string) bool {
	for _, st := range t.Types {
		if st == typ {
			return true
		}
	}
	return false
}

// IsEmpty returns true if no types are defined.
func (t SchemaType) IsEmpty() bool {
	return len(t.Types) == 0
}

// String returns the type as a string.
func (t SchemaType) String() string {
	if len(t.Types) == 1 {
		return t.Types[0]
	}
	return fmt.Sprintf("%v", t.Types)
}

// Property returns the schema of a direct property, or nil.
func (s *Schema) Property(name string) *Schema {
	if s == nil || s.Properties == nil {
		return nil
	}
	return s.Properties[name]
}

// AllowsAdditionalProperties returns whether additional properties are allowed.
func (s *Schema) AllowsAdditionalProperties() bool {
	if s.AdditionalProperties == nil {
		return true // Default is true
	}
	return *s.AdditionalProperties
}
