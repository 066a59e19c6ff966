// Package app runs the packers against the configured directories.
//
// Each stage reads its source document once, packs it fully in memory and
// writes the result with a single atomic replace, so a failing stage never
// leaves a partial output file. Runs stop at the first failing stage.
package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/dshills/wimgen/internal/config"
	"github.com/dshills/wimgen/internal/config/loader"
	"github.com/dshills/wimgen/internal/pack"
)

// App packs source documents into runtime files.
type App struct {
	cfg     *config.Config
	logger  *log.Logger
	metrics *Metrics
	sources *loader.JSONLoader
}

// Option configures an App.
type Option func(*App)

// WithFileSystem sets the file system source documents are read from.
// Packed files are always written to the OS file system.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(a *App) {
		a.sources = loader.NewJSONLoaderWithFS(fsys)
	}
}

// Result describes one packed stage.
type Result struct {
	Stage   pack.Stage
	Source  string
	Output  string
	Records int
	Size    int
	Elapsed time.Duration
}

// New creates an App. A nil logger discards output.
func New(cfg *config.Config, logger *log.Logger, opts ...Option) *App {
	if logger == nil {
		logger = NullLogger()
	}
	a := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: NewMetrics(),
		sources: loader.NewJSONLoader(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the resolved settings.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Metrics returns the pack metrics.
func (a *App) Metrics() *Metrics {
	return a.metrics
}

// SourcePath returns the path of the stage's source document.
func (a *App) SourcePath(stage pack.Stage) string {
	return filepath.Join(a.cfg.ConfigDir, stage.SourceFile())
}

// OutputPath returns the path of the stage's packed file.
func (a *App) OutputPath(stage pack.Stage) string {
	return filepath.Join(a.cfg.OutputDir, stage.OutputFile())
}

// Run packs stages in run order. With no arguments the configured stages are
// packed. The first failure ends the run; outputs of earlier stages are kept.
func (a *App) Run(ctx context.Context, stages ...pack.Stage) ([]Result, error) {
	if len(stages) == 0 {
		stages = a.cfg.Stages
	}
	if len(stages) == 0 {
		return nil, ErrNoStages
	}

	results := make([]Result, 0, len(stages))
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := a.PackStage(stage)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// PackStage packs a single stage.
func (a *App) PackStage(stage pack.Stage) (Result, error) {
	start := time.Now()
	res, err := a.packStage(stage)
	res.Elapsed = time.Since(start)
	a.metrics.RecordPack(stage, res.Elapsed, res.Size, err)

	logger := WithComponent(a.logger, string(stage))
	if err != nil {
		logger.Debug("pack failed", "source", res.Source, "err", err)
		return res, err
	}
	logger.Info("packed",
		"records", res.Records,
		"size", humanize.Bytes(uint64(res.Size)),
		"output", res.Output,
		"elapsed", res.Elapsed.Round(time.Microsecond))
	return res, nil
}

func (a *App) packStage(stage pack.Stage) (Result, error) {
	res := Result{
		Stage:  stage,
		Source: a.SourcePath(stage),
		Output: a.OutputPath(stage),
	}

	doc, err := a.sources.LoadDocument(res.Source)
	if err != nil {
		var perr *loader.ParseError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return res, NewOperationError("load", res.Source, ErrSourceMissing)
		case errors.As(err, &perr):
			return res, pack.ParseFailure(stage, err)
		default:
			return res, NewOperationError("load", res.Source, err)
		}
	}

	out, err := pack.PackDocument(stage, doc)
	if err != nil {
		return res, err
	}

	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return res, NewOperationError("create", a.cfg.OutputDir, err)
	}
	if err := WriteFileAtomic(res.Output, out.Data, 0o644); err != nil {
		return res, err
	}

	res.Records = out.Records
	res.Size = len(out.Data)
	return res, nil
}

// WriteFileAtomic writes data to a temporary file in the target directory and
// renames it over path. On failure the target is left untouched.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return NewOperationError("write", path, err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return NewOperationError("write", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return NewOperationError("write", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return NewOperationError("write", path, err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		os.Remove(tmp)
		return NewOperationError("write", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return NewOperationError("write", path, err)
	}
	return nil
}
