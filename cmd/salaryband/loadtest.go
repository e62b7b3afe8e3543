package main

import (
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/salaryband/internal/loadtest"
)

// Default load test settings.
const (
	defaultProfiles      = 10000
	defaultWorkerFactor  = 2
	defaultClientTimeout = 30 * time.Second
)

func newLoadtestCmd(o *rootOptions) *cobra.Command {
	cfg := loadtest.Config{}
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive a running service with generated profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Logger = o.log.Named("loadtest")
			stats, err := loadtest.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "submitted %d, succeeded %d, failed %d in %s (%.0f/s)\n",
				stats.Submitted, stats.Succeeded, stats.Failed, stats.Duration.Round(time.Millisecond), stats.Throughput())
			bands := make([]string, 0, len(stats.ByBand))
			for b := range stats.ByBand {
				bands = append(bands, b)
			}
			sort.Strings(bands)
			for _, b := range bands {
				_, _ = fmt.Fprintf(out, "  %-12s %d\n", b, stats.ByBand[b])
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	f.IntVar(&cfg.Profiles, "profiles", defaultProfiles, "number of profiles to generate")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkerFactor, "concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", defaultClientTimeout, "per-request timeout")
	f.Uint64Var(&cfg.Seed, "seed", 0, "generator seed (default: time based)")
	f.StringVar(&cfg.OutputFile, "output", "", "write generated profiles as JSON lines")
	return cmd
}
