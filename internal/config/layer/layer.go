// Package layer merges configuration sources by precedence.
//
// Each source contributes one layer. Higher priority layers override values
// from lower priority layers, and every effective value can be traced back to
// the layer that supplied it.
package layer

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/wimgen/internal/config/loader"
)

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceDefaults represents built-in defaults.
	SourceDefaults Source = iota
	// SourceManifest represents the wimgen.toml manifest.
	SourceManifest
	// SourceEnv represents environment variables.
	SourceEnv
	// SourceFlags represents command-line flags.
	SourceFlags
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceManifest:
		return "manifest"
	case SourceEnv:
		return "environment"
	case SourceFlags:
		return "flags"
	default:
		return "unknown"
	}
}

// Priority returns the merge priority of the source. Higher values override
// lower values.
func (s Source) Priority() int {
	return int(s) * 100
}

// Layer represents a single configuration layer.
type Layer struct {
	// Source indicates where this layer was loaded from.
	Source Source

	// Path is the file path, if loaded from file.
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any
}

// New creates a layer holding data.
func New(source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{Source: source, Data: data}
}

// Stack holds layers sorted by priority.
type Stack struct {
	mu     sync.RWMutex
	layers []*Layer
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Add adds a layer. A layer with the same source replaces the existing one.
func (s *Stack) Add(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.layers {
		if existing.Source == l.Source {
			s.layers[i] = l
			return
		}
	}
	s.layers = append(s.layers, l)
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].Source.Priority() < s.layers[j].Source.Priority()
	})
}

// Layers returns the layers in ascending priority.
func (s *Stack) Layers() []*Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Merge combines all layers into a new map. Layer data is not modified.
func (s *Stack) Merge() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]any)
	for _, l := range s.layers {
		result = loader.DeepMerge(result, cloneMap(l.Data))
	}
	return result
}

// Get returns the effective value for a dot-separated path and the layer
// that supplied it.
func (s *Stack) Get(path string) (any, *Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.layers) - 1; i >= 0; i-- {
		if val, ok := GetByPath(s.layers[i].Data, path); ok {
			return val, s.layers[i], true
		}
	}
	return nil, nil, false
}

// Origin returns the source that supplied path, or false if no layer sets it.
func (s *Stack) Origin(path string) (Source, bool) {
	_, l, ok := s.Get(path)
	if !ok {
		return 0, false
	}
	return l.Source, true
}

// GetByPath retrieves a value from a nested map using a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		val, exists := m[part]
		if !exists {
			return nil, false
		}
		current = val
	}
	return current, true
}

// SetByPath sets a value in a nested map using a dot-separated path,
// creating intermediate maps as needed.
func SetByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for key, val := range src {
		switch v := val.(type) {
		case map[string]any:
			dst[key] = cloneMap(v)
		case []any:
			dst[key] = cloneSlice(v)
		default:
			dst[key] = val
		}
	}
	return dst
}

func cloneSlice(src []any) []any {
	dst := make([]any, len(src))
	for i, val := range src {
		switch v := val.(type) {
		case map[string]any:
			dst[i] = cloneMap(v)
		case []any:
			dst[i] = cloneSlice(v)
		default:
			dst[i] = val
		}
	}
	return dst
}
