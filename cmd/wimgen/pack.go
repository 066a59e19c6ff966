package main

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dshills/wimgen/internal/app"
	"github.com/dshills/wimgen/internal/pack"
)

func newPackCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:       "pack [themes|config|syntax]...",
		Short:     "Pack the selected stages (all configured stages by default)",
		ValidArgs: []string{string(pack.StageThemes), string(pack.StageConfig), string(pack.StageSyntax)},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, flags, stdout, stderr)
			if err != nil {
				return err
			}
			return runPack(cmd, e, args)
		},
	}
}

// runPack packs the named stages in run order, or the configured stages when
// none are named.
func runPack(cmd *cobra.Command, e *env, names []string) error {
	stages, err := selectStages(names)
	if err != nil {
		return err
	}

	a := app.New(e.cfg, e.logger)
	results, err := a.Run(cmd.Context(), stages...)
	if err != nil {
		return err
	}

	var total uint64
	for _, r := range results {
		total += uint64(r.Size)
	}
	e.logger.Debug("done", "stages", len(results), "written", humanize.Bytes(total))
	return nil
}

// selectStages parses stage names and returns them in run order.
func selectStages(names []string) ([]pack.Stage, error) {
	want := make(map[pack.Stage]bool, len(names))
	for _, name := range names {
		s, err := pack.ParseStage(name)
		if err != nil {
			return nil, err
		}
		want[s] = true
	}

	var stages []pack.Stage
	for _, s := range pack.Stages() {
		if want[s] {
			stages = append(stages, s)
		}
	}
	return stages, nil
}
