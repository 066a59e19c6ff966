// Package config resolves the settings of a wimgen run.
//
// Settings are merged from four layers, lowest priority first: built-in
// defaults, the wimgen.toml manifest, WIMGEN_* environment variables, and
// command-line flags. The merged result is validated before use.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/wimgen/internal/config/layer"
	"github.com/dshills/wimgen/internal/config/loader"
	"github.com/dshills/wimgen/internal/config/schema"
	"github.com/dshills/wimgen/internal/pack"
)

// DefaultManifest is the manifest file name looked up in the working
// directory.
const DefaultManifest = "wimgen.toml"

// Setting paths.
const (
	KeyConfigDir = "paths.config"
	KeyOutputDir = "paths.output"
	KeyLogLevel  = "log.level"
	KeyStages    = "pack.stages"
	KeyDebounce  = "watch.debounce"
)

// ErrInvalidConfig indicates the merged settings failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the resolved settings.
type Config struct {
	// ConfigDir is the directory holding the JSON source documents.
	ConfigDir string

	// OutputDir is the directory the packed files are written to.
	OutputDir string

	// LogLevel is one of debug, info, warn or error.
	LogLevel string

	// Stages lists the stages to run, in canonical order.
	Stages []pack.Stage

	// Debounce is the quiet period before watch mode repacks.
	Debounce time.Duration

	// Manifest is the manifest path that was consulted.
	Manifest string

	stack *layer.Stack
}

// Default returns the built-in settings.
func Default() *Config {
	cfg, err := build(defaultsStack(), "")
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

func defaults() map[string]any {
	stages := make([]any, 0, 3)
	for _, s := range pack.Stages() {
		stages = append(stages, string(s))
	}
	return map[string]any{
		"paths": map[string]any{"config": "config", "output": "runtime"},
		"log":   map[string]any{"level": "info"},
		"pack":  map[string]any{"stages": stages},
		"watch": map[string]any{"debounce": "200ms"},
	}
}

func defaultsStack() *layer.Stack {
	s := layer.NewStack()
	s.Add(layer.New(layer.SourceDefaults, defaults()))
	return s
}

var manifestSchema = func() *schema.Schema {
	stageNames := make([]string, 0, 3)
	for _, s := range pack.Stages() {
		stageNames = append(stageNames, string(s))
	}
	nonEmpty := func() *schema.Schema { return schema.String().MinLength(1).Build() }

	return schema.Object().
		AdditionalProperties(false).
		Property("paths", schema.Object().
			AdditionalProperties(false).
			Property("config", nonEmpty()).
			Property("output", nonEmpty()).
			Build()).
		Property("log", schema.Object().
			AdditionalProperties(false).
			Property("level", schema.StringEnum("debug", "info", "warn", "error").Build()).
			Build()).
		Property("pack", schema.Object().
			AdditionalProperties(false).
			Property("stages", schema.Array().
				MinItems(1).
				Items(schema.StringEnum(stageNames...).Build()).
				Build()).
			Build()).
		Property("watch", schema.Object().
			AdditionalProperties(false).
			Property("debounce", nonEmpty()).
			Build()).
		Build()
}()

type options struct {
	fs        loader.FileSystem
	lookup    func(string) (string, bool)
	overrides map[string]any
}

// Option configures Load.
type Option func(*options)

// WithFS sets the file system the manifest is read from.
func WithFS(fs loader.FileSystem) Option {
	return func(o *options) { o.fs = fs }
}

// WithEnv sets the function used to read environment variables.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) { o.lookup = lookup }
}

// WithOverride sets a value in the flags layer. Empty strings are ignored so
// unset flags can be passed through unconditionally.
func WithOverride(path string, value any) Option {
	return func(o *options) {
		if s, ok := value.(string); ok && s == "" {
			return
		}
		if o.overrides == nil {
			o.overrides = make(map[string]any)
		}
		layer.SetByPath(o.overrides, path, value)
	}
}

// Load resolves settings from the manifest at path, the environment and any
// overrides. A missing manifest is not an error.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS()}
	for _, opt := range opts {
		opt(&o)
	}
	if path == "" {
		path = DefaultManifest
	}

	stack := defaultsStack()

	manifest, err := loader.NewTOMLLoaderWithFS(o.fs, path).Load()
	if err != nil {
		return nil, err
	}
	if manifest != nil {
		l := layer.New(layer.SourceManifest, manifest)
		l.Path = path
		stack.Add(l)
	}

	env := loader.NewEnvLoader()
	if o.lookup != nil {
		env.WithLookup(o.lookup)
	}
	envData, err := env.Load()
	if err != nil {
		return nil, err
	}
	if envData = pruneEmpty(envData); len(envData) > 0 {
		stack.Add(layer.New(layer.SourceEnv, envData))
	}

	if len(o.overrides) > 0 {
		stack.Add(layer.New(layer.SourceFlags, o.overrides))
	}

	return build(stack, path)
}

// build validates the merged stack and converts it to a Config.
func build(stack *layer.Stack, manifest string) (*Config, error) {
	merged := stack.Merge()
	normalizeStages(merged)

	validator := schema.NewValidator(manifestSchema).
		WithStrictMode(true).
		WithCollectAllErrors(false)
	if err := validator.Validate(merged); err != nil {
		var errs *schema.ValidationErrors
		if errors.As(err, &errs) {
			v := errs.First()
			return nil, fmt.Errorf("%w: %s (set by %s)", ErrInvalidConfig, v.Error(), origin(stack, v.Path))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	get := func(path string) string {
		v, _ := layer.GetByPath(merged, path)
		return v.(string)
	}

	debounce, err := time.ParseDuration(get(KeyDebounce))
	if err != nil || debounce < 0 {
		return nil, fmt.Errorf("%w: %s: invalid duration %q (set by %s)",
			ErrInvalidConfig, KeyDebounce, get(KeyDebounce), origin(stack, KeyDebounce))
	}

	raw, _ := layer.GetByPath(merged, KeyStages)
	return &Config{
		ConfigDir: get(KeyConfigDir),
		OutputDir: get(KeyOutputDir),
		LogLevel:  get(KeyLogLevel),
		Stages:    canonicalStages(raw.([]any)),
		Debounce:  debounce,
		Manifest:  manifest,
		stack:     stack,
	}, nil
}

// Origin names the layer that supplied the setting at path.
func (c *Config) Origin(path string) string {
	return origin(c.stack, path)
}

func origin(stack *layer.Stack, path string) string {
	if i := strings.IndexByte(path, '['); i >= 0 {
		path = path[:i]
	}
	if stack == nil {
		return layer.SourceDefaults.String()
	}
	if src, ok := stack.Origin(path); ok {
		return src.String()
	}
	return "unknown"
}

// normalizeStages splits a comma-separated stage list, as given through the
// environment, into an array.
func normalizeStages(merged map[string]any) {
	s, ok := merged["pack"].(map[string]any)
	if !ok {
		return
	}
	list, ok := s["stages"].(string)
	if !ok {
		return
	}
	var stages []any
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			stages = append(stages, name)
		}
	}
	if stages == nil {
		stages = []any{}
	}
	s["stages"] = stages
}

// canonicalStages returns the named stages in run order without duplicates.
func canonicalStages(names []any) []pack.Stage {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n.(string)] = true
	}
	var stages []pack.Stage
	for _, s := range pack.Stages() {
		if want[string(s)] {
			stages = append(stages, s)
		}
	}
	return stages
}

func pruneEmpty(data map[string]any) map[string]any {
	for k, v := range data {
		switch val := v.(type) {
		case string:
			if val == "" {
				delete(data, k)
			}
		case map[string]any:
			if len(pruneEmpty(val)) == 0 {
				delete(data, k)
			}
		}
	}
	return data
}
