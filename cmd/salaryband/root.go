package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/salaryband/internal/adapters/artifact"
	"github.com/okian/salaryband/internal/adapters/rules"
	service "github.com/okian/salaryband/internal/app"
	"github.com/okian/salaryband/internal/config"
	"github.com/okian/salaryband/pkg/logger"
	"github.com/okian/salaryband/pkg/metrics"
)

// rootOptions carries persistent flags and the state derived from them.
type rootOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	modelPath  string
	rulesPath  string

	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "salaryband",
		Short: "Placement probability scoring with salary band recommendations",
		Long: `salaryband scores student profiles with a trained placement pipeline and
maps each probability, together with CGPA, IQ and projects completed, onto a
salary band from an ordered first-match rule table.`,
		SilenceUsage:      true,
		PersistentPreRunE: o.init,
		PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configFile, "config", "", "config file, YAML or JSON (default: $"+config.EnvConfigFile+")")
	flags.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&o.logFormat, "log-format", "", "log format (console, json)")
	flags.StringVar(&o.modelPath, "model", "", "placement pipeline artifact path")
	flags.StringVar(&o.rulesPath, "rules", "", "salary band rule table path")

	cmd.AddCommand(newServeCmd(o))
	cmd.AddCommand(newEvaluateCmd(o))
	cmd.AddCommand(newRulesCmd(o))
	cmd.AddCommand(newModelCmd(o))
	cmd.AddCommand(newLoadtestCmd(o))
	return cmd
}

// init loads configuration (defaults -> file -> env -> flags) and sets up
// logging. Logs go to stderr so command output on stdout stays parseable.
func (o *rootOptions) init(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFile(ctx, o.configFile)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if o.modelPath != "" {
		cfg.ModelPath = o.modelPath
	}
	if o.rulesPath != "" {
		cfg.RulesPath = o.rulesPath
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutputPaths("stderr")); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	o.log = logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		o.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
	)

	o.cfg = cfg
	return nil
}

// components is the wired evaluation stack shared by serve and evaluate.
type components struct {
	model *artifact.Store
	rules *rules.Store
	svc   *service.Service
}

// build loads the model artifact and the rule table and wires the service.
// A model that fails to load is fatal; a rule table that fails to load is
// reported per request as a configuration error.
func (o *rootOptions) build(ctx context.Context) (*components, error) {
	cfg := o.cfg

	model := artifact.NewStore(cfg.ModelPath, artifact.WithLogger(o.log.Named("artifact")))
	if err := model.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	table := rules.NewStore(cfg.RulesPath,
		rules.WithLogger(o.log.Named("rules")),
		rules.WithDefaultBand(cfg.DefaultBand),
	)
	if err := table.Load(ctx); err != nil {
		o.log.Error(ctx, "rule table unavailable; evaluations will fail until it is fixed",
			logger.String("path", cfg.RulesPath),
			logger.Error(err),
		)
	}

	svc := service.New(model, table,
		service.WithLogger(o.log.Named("service")),
		service.WithBatchWorkers(cfg.BatchWorkers),
		service.WithMaxBatchSize(cfg.MaxBatchSize),
		service.WithRequestTimeout(cfg.RequestTimeout()),
		service.WithRuleWatching(cfg.WatchRules),
	)
	return &components{model: model, rules: table, svc: svc}, nil
}
