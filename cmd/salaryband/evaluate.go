package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/salaryband/internal/adapters/dataset"
	"github.com/okian/salaryband/internal/domain/model"
	"github.com/okian/salaryband/internal/domain/types"
)

// Output formats.
const (
	outputJSON  = "json"
	outputTable = "table"
)

var errUnknownOutput = errors.New("unknown output format")

type evaluateOptions struct {
	csvPath string
	output  string
	profile model.Profile
}

func newEvaluateCmd(o *rootOptions) *cobra.Command {
	e := &evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one profile from flags or many from a CSV file",
		Long: `Evaluate scores profiles and recommends a salary band for each.

Without --csv a single profile is built from flags. With --csv every row of
the file is evaluated; rows that fail are reported in place.`,
		Example: `  salaryband evaluate --id C001 --iq 95 --cgpa 7 --prev-sem 70 --academic 75 \
      --internship yes --extra 60 --communication 70 --projects 2
  salaryband evaluate --csv college_student_placement.csv --output table`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, o, e)
		},
	}

	f := cmd.Flags()
	f.StringVar(&e.csvPath, "csv", "", "CSV file of profiles (.csv, .csv.gz, .csv.zst)")
	f.StringVarP(&e.output, "output", "o", outputJSON, "output format (json, table)")
	f.StringVar(&e.profile.CollegeID, "id", "", "college id")
	f.IntVar(&e.profile.IQ, "iq", 0, "IQ")
	f.Float64Var(&e.profile.PrevSemResult, "prev-sem", 0, "previous semester result (0-100)")
	f.Float64Var(&e.profile.CGPA, "cgpa", 0, "CGPA (0-10)")
	f.IntVar(&e.profile.AcademicPerformance, "academic", 0, "academic performance (0-100)")
	f.StringVar(&e.profile.Internship, "internship", model.InternshipNo, "internship experience (yes/no)")
	f.IntVar(&e.profile.ExtraCurricular, "extra", 0, "extra-curricular score (0-100)")
	f.IntVar(&e.profile.Communication, "communication", 0, "communication skills (0-100)")
	f.IntVar(&e.profile.ProjectsCompleted, "projects", 0, "projects completed")
	cmd.MarkFlagsMutuallyExclusive("csv", "id")
	return cmd
}

func runEvaluate(cmd *cobra.Command, o *rootOptions, e *evaluateOptions) error {
	if e.output != outputJSON && e.output != outputTable {
		return fmt.Errorf("%w: %s", errUnknownOutput, e.output)
	}
	ctx := cmd.Context()
	c, err := o.build(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if e.csvPath == "" {
		p := e.profile
		p.Internship = model.NormalizeInternship(p.Internship)
		ev, err := c.svc.Evaluate(ctx, p)
		if err != nil {
			return err
		}
		return render(out, e.output, []types.BatchItem{{Evaluation: &ev}})
	}

	records, err := dataset.LoadFile(e.csvPath)
	if err != nil {
		return err
	}
	profiles := dataset.Profiles(records)

	items := make([]types.BatchItem, 0, len(profiles))
	failed := 0
	for start := 0; start < len(profiles); start += o.cfg.MaxBatchSize {
		end := min(start+o.cfg.MaxBatchSize, len(profiles))
		res, err := c.svc.EvaluateBatch(ctx, profiles[start:end])
		if err != nil {
			return err
		}
		for _, it := range res.Items {
			it.Index += start
			items = append(items, it)
		}
		failed += res.Failed
	}
	if err := render(out, e.output, items); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d profiles failed", failed, len(profiles))
	}
	return nil
}

// render writes items as JSON lines or an aligned table.
func render(w io.Writer, format string, items []types.BatchItem) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		for _, it := range items {
			var v any = it
			if it.Evaluation != nil && len(items) == 1 {
				v = it.Evaluation
			}
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "INDEX\tPROFILE\tPROBABILITY\tBAND\tMATCHED\tERROR")
	for _, it := range items {
		if it.Evaluation == nil {
			_, _ = fmt.Fprintf(tw, "%d\t-\t-\t-\t-\t%s\n", it.Index, it.Error)
			continue
		}
		ev := it.Evaluation
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s%%\t%s\t%t\t\n",
			it.Index, ev.ProfileID, strconv.FormatFloat(ev.ProbabilityPercent, 'f', 1, 64), ev.Band, ev.Matched)
	}
	return tw.Flush()
}
