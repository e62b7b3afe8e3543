package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/salaryband/internal/adapters/rules"
)

func newRulesCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect salary band rule tables",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Validate a rule table and report ordering problems",
		Long: `check loads a rule table, validates it against the rule schema, prints the
bands in evaluation order, and lists bands that can never match because an
earlier band shadows them. Defaults to the configured rules path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.cfg.RulesPath
			if len(args) == 1 {
				path = args[0]
			}
			table, err := rules.LoadFile(path, o.cfg.DefaultBand)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "#\tBAND\tMIN_PROB\tMIN_CGPA\tMIN_IQ\tMIN_PROJECTS")
			for i, b := range table.Bands() {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%d\t%d\n", i, b.Name, b.MinProb, b.MinCGPA, b.MinIQ, b.MinProjects)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "default band: %s\n", table.Default())
			for _, w := range table.Lint() {
				_, _ = fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	})
	return cmd
}
