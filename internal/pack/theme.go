package pack

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/wimgen/internal/config/loader"
	"github.com/dshills/wimgen/internal/config/schema"
)

// Theme is a named colour scheme with one colour per slot.
type Theme struct {
	Name   string
	Colors [NumColorSlots]RGB
}

// Color returns the colour assigned to slot.
func (t Theme) Color(slot ColorSlot) RGB {
	return t.Colors[slot]
}

// themeSchema validates the colour values of one theme. Key-set equality is
// checked separately, before the validator runs.
var themeSchema = func() *schema.Schema {
	b := schema.Object().AdditionalProperties(false)
	for _, name := range slotNames {
		b.Property(name, schema.String().Pattern(HexColorPattern).Build())
	}
	return b.Build()
}()

// PackThemes validates every theme in doc and returns the concatenated theme
// records in document order.
func PackThemes(doc *loader.Document) ([]byte, int, error) {
	themes, err := ParseThemes(doc)
	if err != nil {
		return nil, 0, err
	}
	return EncodeThemes(themes), len(themes), nil
}

// ParseThemes validates doc and converts it to themes in document order.
// Validation stops at the first violation.
func ParseThemes(doc *loader.Document) ([]Theme, error) {
	validator := schema.NewValidator(themeSchema).
		WithStrictMode(true).
		WithCollectAllErrors(false)

	themes := make([]Theme, 0, doc.Len())
	seen := make(map[string]string, doc.Len())
	for _, name := range doc.Keys() {
		value, _ := doc.Get(name)
		theme, err := parseTheme(validator, name, value)
		if err != nil {
			return nil, err
		}

		key := truncate(name, ThemeNameWidth)
		if prev, dup := seen[key]; dup {
			return nil, newError(StageThemes, ErrSchema, name, "",
				"theme name '%s' collides with '%s' after truncation to %d bytes", name, prev, ThemeNameWidth)
		}
		seen[key] = name

		themes = append(themes, theme)
	}
	return themes, nil
}

func parseTheme(validator *schema.Validator, name string, value any) (Theme, error) {
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return Theme{}, newError(StageThemes, ErrSchema, name, "", "invalid theme name %q", name)
	}

	colors, ok := value.(map[string]any)
	if !ok {
		return Theme{}, newError(StageThemes, ErrTypeMismatch, name, "",
			"theme '%s' must be an object, got %s", name, schema.TypeName(value))
	}

	if missing, extra := slotDifference(colors); len(missing) > 0 || len(extra) > 0 {
		err := newError(StageThemes, ErrSchema, name, "",
			"mismatched colors in '%s' theme%s", name, describeDifference(missing, extra))
		err.Value = colors
		return Theme{}, err
	}

	// The key set already matches the slots, so any remaining violation is a
	// bad colour value, whatever its JSON type.
	if v := firstViolation(validator.Validate(colors)); v != nil {
		slot := v.Property()
		err := newError(StageThemes, ErrInvalidColor, name, slot,
			"invalid hex value '%v' for '%s' in '%s' theme", v.Value, slot, name)
		err.Value = v.Value
		return Theme{}, err
	}

	theme := Theme{Name: name}
	for _, slot := range ColorSlots() {
		c, err := ParseHex(colors[slot.String()].(string))
		if err != nil {
			return Theme{}, &Error{
				Stage:   StageThemes,
				Kind:    ErrInvalidColor,
				Record:  name,
				Field:   slot.String(),
				Value:   colors[slot.String()],
				Message: fmt.Sprintf("invalid hex value for '%s' in '%s' theme", slot, name),
				Err:     err,
			}
		}
		theme.Colors[slot] = c
	}
	return theme, nil
}

// slotDifference returns the slot names missing from colors and the keys of
// colors that are not slot names, both sorted.
func slotDifference(colors map[string]any) (missing, extra []string) {
	for _, name := range slotNames {
		if _, ok := colors[name]; !ok {
			missing = append(missing, name)
		}
	}
	for key := range colors {
		if _, ok := ParseColorSlot(key); !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func describeDifference(missing, extra []string) string {
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "unexpected: "+strings.Join(extra, ", "))
	}
	return " (" + strings.Join(parts, "; ") + ")"
}

// EncodeThemes serializes themes as fixed-size records. Names longer than
// ThemeNameWidth bytes are truncated.
func EncodeThemes(themes []Theme) []byte {
	out := make([]byte, 0, len(themes)*ThemeRecordSize)
	for _, t := range themes {
		out = append(out, padField(t.Name, ThemeNameWidth)...)
		for _, c := range t.Colors {
			out = appendColorField(out, c)
		}
	}
	return out
}
