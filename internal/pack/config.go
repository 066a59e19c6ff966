package pack

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/wimgen/internal/config/loader"
	"github.com/dshills/wimgen/internal/config/schema"
)

// EditorConfig is the editor settings record.
type EditorConfig struct {
	SyntaxEnabled bool  // enable syntax highlighting
	MatchParen    bool  // insert the closing paren when typing '('
	UseCRLF       bool  // write CRLF line endings
	TabSize       uint8 // spaces per tab
}

// configField is one entry of the fixed config record layout.
type configField struct {
	name string
	typ  string
}

// configFields lists the record fields in packing order.
var configFields = [ConfigRecordSize]configField{
	{"syntaxEnabled", schema.TypeNameBoolean},
	{"matchParen", schema.TypeNameBoolean},
	{"useCRLF", schema.TypeNameBoolean},
	{"tabSize", schema.TypeNameInteger},
}

var configSchema = func() *schema.Schema {
	b := schema.Object().AdditionalProperties(false)
	for _, f := range configFields {
		switch f.typ {
		case schema.TypeNameBoolean:
			b.Property(f.name, schema.Boolean().Build())
		case schema.TypeNameInteger:
			b.Property(f.name, schema.IntRange(0, 255).Build())
		}
	}
	return b.Build()
}()

// ConfigFieldNames returns the config field names in record order.
func ConfigFieldNames() []string {
	names := make([]string, len(configFields))
	for i, f := range configFields {
		names[i] = f.name
	}
	return names
}

// PackConfig validates doc and returns the config record.
func PackConfig(doc *loader.Document) ([]byte, int, error) {
	cfg, err := ParseConfig(doc)
	if err != nil {
		return nil, 0, err
	}
	return cfg.Encode(), 1, nil
}

// ParseConfig validates doc against the config schema. Unknown fields are
// reported first, then type mismatches, then range violations, then missing
// fields.
func ParseConfig(doc *loader.Document) (EditorConfig, error) {
	values := doc.Map()

	validator := schema.NewValidator(configSchema).
		WithStrictMode(true).
		WithCollectAllErrors(false)
	if v := firstViolation(validator.Validate(values)); v != nil {
		field := v.Property()
		kind := kindForCode(v.Code)

		var err *Error
		switch kind {
		case ErrUnknownField:
			err = newError(StageConfig, kind, "", field, "unknown field '%s' in config", field)
		case ErrTypeMismatch:
			err = newError(StageConfig, kind, "", field,
				"field '%s' in config must be %s, got %s", field, fieldType(field), schema.TypeName(v.Value))
		case ErrRange:
			err = newError(StageConfig, kind, "", field,
				"field '%s' in config is out of range [0, 255]: %v", field, v.Value)
		default:
			err = newError(StageConfig, kind, "", field, "field '%s' in config: %s", field, v.Message)
		}
		err.Value = values[field]
		return EditorConfig{}, err
	}

	for _, f := range configFields {
		if _, ok := values[f.name]; !ok {
			return EditorConfig{}, newError(StageConfig, ErrMissingField, "", f.name,
				"missing field '%s' in config", f.name)
		}
	}

	tabSize, err := values["tabSize"].(json.Number).Int64()
	if err != nil {
		return EditorConfig{}, &Error{
			Stage:   StageConfig,
			Kind:    ErrTypeMismatch,
			Field:   "tabSize",
			Value:   values["tabSize"],
			Message: fmt.Sprintf("field 'tabSize' in config is not an integer: %v", values["tabSize"]),
			Err:     err,
		}
	}

	return EditorConfig{
		SyntaxEnabled: values["syntaxEnabled"].(bool),
		MatchParen:    values["matchParen"].(bool),
		UseCRLF:       values["useCRLF"].(bool),
		TabSize:       uint8(tabSize),
	}, nil
}

func fieldType(name string) string {
	for _, f := range configFields {
		if f.name == name {
			return f.typ
		}
	}
	return "unknown"
}

// Encode returns the ConfigRecordSize-byte record.
func (c EditorConfig) Encode() []byte {
	return []byte{boolByte(c.SyntaxEnabled), boolByte(c.MatchParen), boolByte(c.UseCRLF), c.TabSize}
}

// DecodeConfig parses a config record.
func DecodeConfig(data []byte) (EditorConfig, error) {
	if len(data) != ConfigRecordSize {
		return EditorConfig{}, fmt.Errorf("%w: config record is %d bytes, want %d",
			ErrMalformedRecord, len(data), ConfigRecordSize)
	}
	for i, f := range configFields[:3] {
		if data[i] > 1 {
			return EditorConfig{}, fmt.Errorf("%w: %s byte is %d", ErrMalformedRecord, f.name, data[i])
		}
	}
	return EditorConfig{
		SyntaxEnabled: data[0] == 1,
		MatchParen:    data[1] == 1,
		UseCRLF:       data[2] == 1,
		TabSize:       data[3],
	}, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
