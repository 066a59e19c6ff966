package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/wimgen/internal/scaffold"
)

func newInitCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write starter source documents to the config directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, flags, stdout, stderr)
			if err != nil {
				return err
			}
			paths, err := scaffold.Write(e.cfg.ConfigDir, force)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(e.stdout, "wrote", p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing documents")
	return cmd
}
