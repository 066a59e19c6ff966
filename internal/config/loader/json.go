package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Document is a parsed JSON object whose top-level keys keep the order they
// appear in the source. Nested values are decoded to plain Go values:
// map[string]any, []any, string, bool, json.Number and nil.
//
// When a key appears more than once the last value wins and the key keeps the
// position of its first occurrence.
type Document struct {
	keys   []string
	values map[string]any
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	return d.keys
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Len returns the number of distinct top-level keys.
func (d *Document) Len() int {
	return len(d.keys)
}

// Map returns the top-level object as a map. The map is shared with the
// document and must not be modified.
func (d *Document) Map() map[string]any {
	return d.values
}

// JSONLoader reads source documents.
type JSONLoader struct {
	fs FileSystem
}

// NewJSONLoader creates a JSON loader using the OS file system.
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{fs: DefaultFS()}
}

// NewJSONLoaderWithFS creates a JSON loader with a custom file system.
func NewJSONLoaderWithFS(fs FileSystem) *JSONLoader {
	return &JSONLoader{fs: fs}
}

// LoadDocument reads and parses the document at path. Unlike the manifest, a
// missing source document is an error.
func (l *JSONLoader) LoadDocument(path string) (*Document, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("source file %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("reading source file %s: %w", path, err)
	}
	return ParseDocument(path, data)
}

// ParseDocument parses data as a JSON object. Malformed JSON and non-object
// documents are reported as *ParseError.
func ParseDocument(source string, data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		line, col := locateSyntaxError(data)
		return nil, &ParseError{
			Path:    source,
			Line:    line,
			Column:  col,
			Message: "invalid json format",
		}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{
			Path:    source,
			Message: "top-level value must be an object",
		}
	}

	doc := &Document{values: make(map[string]any)}
	root.ForEach(func(key, value gjson.Result) bool {
		if _, seen := doc.values[key.Str]; !seen {
			doc.keys = append(doc.keys, key.Str)
		}
		doc.values[key.Str] = decodeValue(value)
		return true
	})
	return doc, nil
}

// decodeValue converts a gjson result into a plain Go value. Numbers keep
// their source literal so integer and fractional values stay distinguishable.
func decodeValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.Str
	}

	if r.IsArray() {
		arr := make([]any, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			arr = append(arr, decodeValue(value))
			return true
		})
		return arr
	}

	obj := make(map[string]any)
	r.ForEach(func(key, value gjson.Result) bool {
		obj[key.Str] = decodeValue(value)
		return true
	})
	return obj
}

// locateSyntaxError uses encoding/json to find the byte offset of the first
// syntax error and converts it to a line and column.
func locateSyntaxError(data []byte) (line, col int) {
	var v any
	var synErr *json.SyntaxError
	if err := json.Unmarshal(data, &v); !errors.As(err, &synErr) {
		return 0, 0
	}

	line, col = 1, 1
	for i := int64(0); i < synErr.Offset-1 && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
