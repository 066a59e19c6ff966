package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/dshills/wimgen/internal/config/watcher"
	"github.com/dshills/wimgen/internal/pack"
)

// Watch packs the configured stages once, then repacks a stage whenever its
// source document changes. Pack failures are logged and do not stop watching.
// Watch returns nil when ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	logger := WithComponent(a.logger, "watch")

	w, err := watcher.New(
		watcher.WithDebounce(a.cfg.Debounce),
		watcher.WithErrorHandler(func(err error) {
			logger.Warn("watch error", "err", err)
		}),
	)
	if err != nil {
		return WrapError(err, "starting watcher")
	}
	defer w.Close()

	bySource := make(map[string]pack.Stage, len(a.cfg.Stages))
	for _, stage := range a.cfg.Stages {
		src, err := filepath.Abs(a.SourcePath(stage))
		if err != nil {
			return err
		}
		if err := w.Watch(src); err != nil {
			return NewOperationError("watch", src, err)
		}
		bySource[src] = stage
	}

	for _, stage := range a.cfg.Stages {
		if _, err := a.PackStage(stage); err != nil {
			logger.Error(err.Error(), "stage", stage)
		}
	}

	w.OnChange(func(ev watcher.Event) {
		stage, ok := bySource[ev.Path]
		if !ok {
			return
		}
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			logger.Warn("source removed, keeping previous output", "stage", stage, "source", ev.Path)
			return
		}
		logger.Debug("source changed", "stage", stage, "op", ev.Op)
		if _, err := a.PackStage(stage); err != nil {
			logger.Error(err.Error(), "stage", stage)
		}
	})

	logger.Info("watching", "dir", a.cfg.ConfigDir, "stages", len(bySource))
	err = w.Run(ctx)

	snap := a.metrics.Snapshot()
	logger.Info("stopped", "packs", snap.Packs, "failures", snap.Failures)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
