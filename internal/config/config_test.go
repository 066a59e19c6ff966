package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dshills/wimgen/internal/config/loader"
	"github.com/dshills/wimgen/internal/pack"
)

func noEnv(string) (string, bool) { return "", false }

func fakeEnv(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultManifest)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ConfigDir != "config" || cfg.OutputDir != "runtime" {
		t.Errorf("dirs = %q, %q", cfg.ConfigDir, cfg.OutputDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.Stages, pack.Stages()) {
		t.Errorf("Stages = %v", cfg.Stages)
	}
	if cfg.Debounce != 200*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Debounce)
	}
	if got := cfg.Origin(KeyOutputDir); got != "defaults" {
		t.Errorf("Origin = %q", got)
	}
}

func TestLoad_MissingManifest(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), WithEnv(noEnv))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.OutputDir != "runtime" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeManifest(t, `
[paths]
config = "src"
output = "from-manifest"

[log]
level = "debug"

[pack]
stages = ["syntax", "themes"]
`)

	cfg, err := Load(path,
		WithEnv(fakeEnv(map[string]string{
			"WIMGEN_OUTPUT_DIR": "from-env",
			"WIMGEN_LOG_LEVEL":  "warn",
		})),
		WithOverride(KeyLogLevel, "error"),
		WithOverride(KeyConfigDir, ""),
	)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if cfg.ConfigDir != "src" {
		t.Errorf("ConfigDir = %q, want src", cfg.ConfigDir)
	}
	if cfg.OutputDir != "from-env" {
		t.Errorf("OutputDir = %q, want from-env", cfg.OutputDir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", cfg.LogLevel)
	}
	// Stages always run in canonical order.
	if want := []pack.Stage{pack.StageThemes, pack.StageSyntax}; !reflect.DeepEqual(cfg.Stages, want) {
		t.Errorf("Stages = %v, want %v", cfg.Stages, want)
	}

	origins := map[string]string{
		KeyConfigDir: "manifest",
		KeyOutputDir: "environment",
		KeyLogLevel:  "flags",
		KeyDebounce:  "defaults",
	}
	for key, want := range origins {
		if got := cfg.Origin(key); got != want {
			t.Errorf("Origin(%s) = %q, want %q", key, got, want)
		}
	}
}

func TestLoad_EnvStages(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"),
		WithEnv(fakeEnv(map[string]string{"WIMGEN_STAGES": "config, themes,config"})))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if want := []pack.Stage{pack.StageThemes, pack.StageConfig}; !reflect.DeepEqual(cfg.Stages, want) {
		t.Errorf("Stages = %v, want %v", cfg.Stages, want)
	}
}

func TestLoad_EmptyEnvIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"),
		WithEnv(fakeEnv(map[string]string{"WIMGEN_LOG_LEVEL": ""})))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		env      map[string]string
		contains string
	}{
		{
			name:     "unknown section",
			manifest: "[colors]\nbg = 1\n",
			contains: "colors",
		},
		{
			name:     "bad log level",
			manifest: "[log]\nlevel = \"loud\"\n",
			contains: "manifest",
		},
		{
			name:     "bad stage",
			env:      map[string]string{"WIMGEN_STAGES": "themes,keymap"},
			contains: "environment",
		},
		{
			name:     "empty stage list",
			manifest: "[pack]\nstages = []\n",
		},
		{
			name:     "output not a string",
			manifest: "[paths]\noutput = 3\n",
			contains: "paths.output",
		},
		{
			name:     "bad debounce",
			manifest: "[watch]\ndebounce = \"soon\"\n",
			contains: "watch.debounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.toml")
			if tt.manifest != "" {
				path = writeManifest(t, tt.manifest)
			}
			_, err := Load(path, WithEnv(fakeEnv(tt.env)))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Load error = %v, want ErrInvalidConfig", err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestLoad_MalformedManifest(t *testing.T) {
	path := writeManifest(t, "[paths\nconfig = 1\n")
	_, err := Load(path, WithEnv(noEnv))

	var perr *loader.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load error = %v, want *loader.ParseError", err)
	}
	if perr.Line != 1 {
		t.Errorf("Line = %d, want 1", perr.Line)
	}
}
