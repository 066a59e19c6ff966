package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

func firstError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var errs *ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected *ValidationErrors, got %v", err)
	}
	return errs.First()
}

func editorSchema() *Schema {
	return Object().
		Property("syntaxEnabled", Boolean().Build()).
		Property("tabSize", IntRange(0, 255).Build()).
		AdditionalProperties(false).
		Build()
}

func TestValidator_Validate_TypeChecks(t *testing.T) {
	obj := func(prop *Schema) *Schema {
		return Object().Property("v", prop).Build()
	}

	tests := []struct {
		name      string
		schema    *Schema
		value     any
		wantError bool
	}{
		{"valid string", obj(String().Build()), "test", false},
		{"invalid string (got number)", obj(String().Build()), json.Number("1"), true},
		{"valid integer", obj(Integer().Build()), json.Number("42"), false},
		{"invalid integer (fraction)", obj(Integer().Build()), json.Number("3.14"), true},
		{"invalid integer (whole float literal)", obj(Integer().Build()), json.Number("4.0"), true},
		{"valid boolean", obj(Boolean().Build()), true, false},
		{"boolean is not integer", obj(Integer().Build()), true, true},
		{"integer is not boolean", obj(Boolean().Build()), json.Number("1"), true},
		{"valid array", obj(Array().Build()), []any{"a"}, false},
		{"null", obj(NewBuilder().Type(TypeNameNull).Build()), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(tt.schema)
			err := v.Validate(map[string]any{"v": tt.value})
			if tt.wantError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidator_StrictMode(t *testing.T) {
	data := map[string]any{"fontSize": json.Number("12")}

	if err := NewValidator(editorSchema()).Validate(data); err != nil {
		t.Errorf("non-strict validator should ignore unknown property: %v", err)
	}

	err := NewValidator(editorSchema()).WithStrictMode(true).Validate(data)
	if got := firstError(t, err); got.Code != CodeUnknownProperty || got.Path != "fontSize" {
		t.Errorf("first error = %+v", got)
	}
}

func TestValidator_Range(t *testing.T) {
	tests := []struct {
		value     json.Number
		wantError bool
	}{
		{"0", false},
		{"255", false},
		{"-1", true},
		{"256", true},
	}

	for _, tt := range tests {
		err := NewValidator(editorSchema()).Validate(map[string]any{"tabSize": tt.value})
		if !tt.wantError {
			if err != nil {
				t.Errorf("tabSize=%s: unexpected error %v", tt.value, err)
			}
			continue
		}
		if got := firstError(t, err); got.Code != CodeOutOfRange {
			t.Errorf("tabSize=%s: code = %v", tt.value, got.Code)
		}
	}
}

func TestValidator_PassOrder(t *testing.T) {
	// An unknown property is reported before a type error, and a type error
	// before a range error, regardless of key order.
	data := map[string]any{
		"tabSize":       json.Number("999"),
		"syntaxEnabled": "yes",
		"zzz":           true,
	}
	v := NewValidator(editorSchema()).WithStrictMode(true).WithCollectAllErrors(false)

	got := firstError(t, v.Validate(data))
	if got.Code != CodeUnknownProperty {
		t.Fatalf("first error = %+v, want unknown property", got)
	}

	delete(data, "zzz")
	got = firstError(t, v.Validate(data))
	if got.Code != CodeTypeMismatch || got.Path != "syntaxEnabled" {
		t.Fatalf("first error = %+v, want type mismatch on syntaxEnabled", got)
	}

	data["syntaxEnabled"] = true
	got = firstError(t, v.Validate(data))
	if got.Code != CodeOutOfRange {
		t.Fatalf("first error = %+v, want range", got)
	}
}

func TestValidator_StopAtFirst(t *testing.T) {
	s := Object().
		Property("a", String().Build()).
		Property("b", String().Build()).
		Build()
	data := map[string]any{"a": json.Number("1"), "b": json.Number("2")}

	var errs *ValidationErrors
	if !errors.As(NewValidator(s).Validate(data), &errs) || len(errs.Errors) != 2 {
		t.Fatalf("collecting validator should report both errors, got %v", errs)
	}
	if !errors.As(NewValidator(s).WithCollectAllErrors(false).Validate(data), &errs) || len(errs.Errors) != 1 {
		t.Fatalf("fail-fast validator should report one error, got %v", errs)
	}
	if errs.First().Path != "a" {
		t.Errorf("first path = %q, want a", errs.First().Path)
	}
}

func TestValidator_Required(t *testing.T) {
	s := Object().
		Property("keywords", Array().Items(String().Build()).Build()).
		Property("types", Array().Items(String().Build()).Build()).
		Required("keywords", "types").
		Build()

	err := NewValidator(s).ValidateAt("py", map[string]any{"keywords": []any{}})
	got := firstError(t, err)
	if got.Code != CodeRequiredMissing || got.Path != "py.types" {
		t.Errorf("first error = %+v", got)
	}
	if got.Property() != "types" {
		t.Errorf("Property() = %q", got.Property())
	}
}

func TestValidator_ArrayItems(t *testing.T) {
	s := Array().Items(String().Build()).Build()
	err := NewValidator(s).ValidateAt("list", []any{"a", json.Number("3")})
	got := firstError(t, err)
	if got.Path != "list[1]" || got.Code != CodeTypeMismatch {
		t.Errorf("first error = %+v", got)
	}
}

func TestValidator_Pattern(t *testing.T) {
	s := String().Pattern(`^#[0-9a-fA-F]{3}$|^#[0-9a-fA-F]{6}$`).Build()
	v := NewValidator(s)

	for _, ok := range []string{"#fff", "#FF00aa"} {
		if err := v.Validate(ok); err != nil {
			t.Errorf("%q: unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"#12345", "#xyz123", "fff", "#ffff"} {
		got := firstError(t, v.Validate(bad))
		if got.Code != CodePatternMismatch {
			t.Errorf("%q: code = %v", bad, got.Code)
		}
	}
}

func TestValidator_Enum(t *testing.T) {
	v := NewValidator(StringEnum("debug", "info").Build())
	if err := v.Validate("info"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got := firstError(t, v.Validate("trace")); got.Code != CodeInvalidEnum {
		t.Errorf("code = %v", got.Code)
	}
}

func TestValidator_Length(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		value  any
	}{
		{"empty string", String().MinLength(1).Build(), ""},
		{"empty array", Array().MinItems(1).Build(), []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstError(t, NewValidator(tt.schema).Validate(tt.value)); got.Code != CodeLength {
				t.Errorf("code = %v, want %v", got.Code, CodeLength)
			}
		})
	}
	if err := NewValidator(String().MinLength(1).Build()).Validate("x"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidator_NilSchema(t *testing.T) {
	if err := NewValidator(nil).Validate("anything"); err != nil {
		t.Errorf("nil schema should accept everything: %v", err)
	}
}
