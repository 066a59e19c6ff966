package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/wimgen/internal/app"
)

func newWatchCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Repack stages whenever their source documents change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, flags, stdout, stderr)
			if err != nil {
				return err
			}
			return app.New(e.cfg, e.logger).Watch(cmd.Context())
		},
	}
}
