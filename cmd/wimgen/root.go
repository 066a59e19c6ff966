package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dshills/wimgen/internal/app"
	"github.com/dshills/wimgen/internal/config"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configDir string
	outputDir string
	manifest  string
	logLevel  string
	logFormat string
}

// env bundles what commands need at run time.
type env struct {
	cfg    *config.Config
	logger *log.Logger
	stdout io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "wimgen",
		Short: "wimgen compiles wim editor configuration into runtime files",
		Long: "wimgen validates themes.json, config.json and syntax.json and packs them\n" +
			"into the fixed-layout .wim files the wim editor reads at startup.\n" +
			"Run without a command to pack every stage.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, flags, stdout, stderr)
			if err != nil {
				return err
			}
			return runPack(cmd, e, nil)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config-dir", "", "directory holding the JSON source documents (default \"config\")")
	pf.StringVar(&flags.outputDir, "output-dir", "", "directory the .wim files are written to (default \"runtime\")")
	pf.StringVar(&flags.manifest, "manifest", config.DefaultManifest, "path to the build manifest")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error (default \"info\")")
	pf.StringVar(&flags.logFormat, "log-format", string(app.LogFormatText), "log format: text, json or logfmt")

	root.AddCommand(
		newPackCmd(flags, stdout, stderr),
		newInspectCmd(flags, stdout, stderr),
		newWatchCmd(flags, stdout, stderr),
		newInitCmd(flags, stdout, stderr),
		newVersionCmd(stdout),
	)
	return root
}

// setup resolves configuration and builds the logger. Flags override the
// manifest and environment only when explicitly given.
func setup(cmd *cobra.Command, flags *globalFlags, stdout, stderr io.Writer) (*env, error) {
	var opts []config.Option
	changed := cmd.Flags().Changed
	if changed("config-dir") {
		opts = append(opts, config.WithOverride(config.KeyConfigDir, flags.configDir))
	}
	if changed("output-dir") {
		opts = append(opts, config.WithOverride(config.KeyOutputDir, flags.outputDir))
	}
	if changed("log-level") {
		opts = append(opts, config.WithOverride(config.KeyLogLevel, flags.logLevel))
	}

	cfg, err := config.Load(flags.manifest, opts...)
	if err != nil {
		return nil, err
	}

	level, err := app.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format := app.LogFormat(flags.logFormat)
	switch format {
	case app.LogFormatText, app.LogFormatJSON, app.LogFormatLogfmt:
	default:
		return nil, fmt.Errorf("invalid log format %q (want text, json or logfmt)", flags.logFormat)
	}

	logCfg := app.DefaultLoggerConfig()
	logCfg.Output = stderr
	logCfg.Level = level
	logCfg.Format = format
	logger := app.NewLogger(logCfg)

	logger.Debug("settings",
		"config_dir", cfg.ConfigDir, "config_dir_from", cfg.Origin(config.KeyConfigDir),
		"output_dir", cfg.OutputDir, "output_dir_from", cfg.Origin(config.KeyOutputDir),
		"manifest", cfg.Manifest)

	return &env{cfg: cfg, logger: logger, stdout: stdout}, nil
}
