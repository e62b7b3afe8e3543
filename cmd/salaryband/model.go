package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/salaryband/internal/adapters/artifact"
)

func newModelCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect placement pipeline artifacts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Validate a pipeline artifact and print its shape",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.cfg.ModelPath
			if len(args) == 1 {
				path = args[0]
			}
			p, err := artifact.ReadFile(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "version: %s\n", p.Version)
			_, _ = fmt.Fprintf(out, "columns: %d\n", len(p.Columns))
			_, _ = fmt.Fprintf(out, "features: %d\n", p.Width())
			for _, s := range p.Steps {
				_, _ = fmt.Fprintf(out, "  %-24s %s\n", s.Column, s.Kind)
			}
			return nil
		},
	})
	return cmd
}
