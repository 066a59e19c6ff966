package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/wimgen/internal/app"
	"github.com/dshills/wimgen/internal/inspect"
	"github.com/dshills/wimgen/internal/pack"
)

func newInspectCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		noColor bool
		theme   string
		ext     string
	)

	cmd := &cobra.Command{
		Use:   "inspect [file.wim]...",
		Short: "Decode and print packed runtime files",
		Long: "Decode .wim files and print their records. Without arguments the\n" +
			"configured stages are read from the output directory. --theme and\n" +
			"--ext look a single record up the way the editor does.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, flags, stdout, stderr)
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				a := app.New(e.cfg, e.logger)
				for _, stage := range inspectStages(e.cfg.Stages, theme, ext) {
					paths = append(paths, a.OutputPath(stage))
				}
			}

			p := inspect.NewPrinter(e.stdout).
				WithSwatches(!noColor).
				WithTheme(theme).
				WithExtension(ext)
			for _, path := range paths {
				if err := p.File(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "omit colour swatches")
	cmd.Flags().StringVar(&theme, "theme", "", "show only the named theme")
	cmd.Flags().StringVar(&ext, "ext", "", "show only the syntax rule for this extension")
	return cmd
}

// inspectStages narrows the default files to those a lookup applies to.
func inspectStages(stages []pack.Stage, theme, ext string) []pack.Stage {
	if theme == "" && ext == "" {
		return stages
	}
	var out []pack.Stage
	for _, s := range stages {
		if (s == pack.StageThemes && theme != "") || (s == pack.StageSyntax && ext != "") {
			out = append(out, s)
		}
	}
	return out
}
