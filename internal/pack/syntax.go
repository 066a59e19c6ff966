package pack

import (
	"strings"

	"github.com/dshills/wimgen/internal/config/loader"
	"github.com/dshills/wimgen/internal/config/schema"
)

// SyntaxRule holds the highlighting word lists for one file extension.
type SyntaxRule struct {
	Extension string
	Keywords  []string
	Types     []string
}

// ExtensionSeparator separates the extensions of a syntax.json group key.
const ExtensionSeparator = "/"

// wordPattern rejects words that would break syntax record framing.
const wordPattern = `^[^\x00\n?]*$`

var syntaxSchema = schema.Object().
	Property("keywords", schema.Array().Items(schema.String().Pattern(wordPattern).Build()).Build()).
	Property("types", schema.Array().Items(schema.String().Pattern(wordPattern).Build()).Build()).
	Required("keywords", "types").
	Build()

// PackSyntax validates doc and returns the newline-delimited syntax records.
func PackSyntax(doc *loader.Document) ([]byte, int, error) {
	rules, err := ParseSyntax(doc)
	if err != nil {
		return nil, 0, err
	}
	return EncodeSyntax(rules), len(rules), nil
}

// ParseSyntax validates doc and splits each extension group into one rule per
// extension, in document order.
func ParseSyntax(doc *loader.Document) ([]SyntaxRule, error) {
	validator := schema.NewValidator(syntaxSchema).WithCollectAllErrors(false)

	var rules []SyntaxRule
	seen := make(map[string]string)
	for _, group := range doc.Keys() {
		value, _ := doc.Get(group)
		if v := firstViolation(validator.ValidateAt(group, value)); v != nil {
			return nil, syntaxViolation(group, v)
		}
		entry := value.(map[string]any)
		keywords := toStrings(entry["keywords"])
		types := toStrings(entry["types"])

		for _, ext := range strings.Split(group, ExtensionSeparator) {
			if ext == "" || hasForbiddenChar(ext) {
				return nil, newError(StageSyntax, ErrSchema, group, "",
					"invalid extension %q in '%s'", ext, group)
			}
			key := truncate(ext, ExtensionWidth)
			if prev, dup := seen[key]; dup {
				return nil, newError(StageSyntax, ErrSchema, group, "",
					"extension '%s' in '%s' is already declared by '%s'", ext, group, prev)
			}
			seen[key] = group

			rules = append(rules, SyntaxRule{
				Extension: ext,
				Keywords:  keywords,
				Types:     types,
			})
		}
	}
	return rules, nil
}

func syntaxViolation(group string, v *schema.ValidationError) *Error {
	field := v.Property()
	kind := kindForCode(v.Code)

	var err *Error
	switch {
	case v.Path == group:
		err = newError(StageSyntax, kind, group, "",
			"entry '%s' must be an object, got %s", group, schema.TypeName(v.Value))
	case kind == ErrMissingField:
		err = newError(StageSyntax, kind, group, field, "missing '%s' field in '%s'", field, group)
	case v.Code == schema.CodePatternMismatch:
		err = newError(StageSyntax, kind, group, field,
			"'%s' in '%s' contains a reserved character (NUL, newline or '%c'): %q",
			field, group, ListSentinel, v.Value)
	default:
		err = newError(StageSyntax, kind, group, field, "'%s' in '%s': %s", field, group, v.Message)
	}
	err.Value = v.Value
	return err
}

func toStrings(v any) []string {
	items := v.([]any)
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.(string)
	}
	return out
}

// EncodeSyntax serializes rules, one line per rule: the NUL-padded extension,
// each keyword followed by NUL, the sentinel, each type followed by NUL, the
// sentinel, and a newline.
func EncodeSyntax(rules []SyntaxRule) []byte {
	var out []byte
	for _, r := range rules {
		out = append(out, padField(r.Extension, ExtensionWidth)...)
		for _, k := range r.Keywords {
			out = append(out, k...)
			out = append(out, 0)
		}
		out = append(out, ListSentinel)
		for _, t := range r.Types {
			out = append(out, t...)
			out = append(out, 0)
		}
		out = append(out, ListSentinel, '\n')
	}
	return out
}
