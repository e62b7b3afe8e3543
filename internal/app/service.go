// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/salaryband/internal/domain/banding"
	"github.com/okian/salaryband/internal/domain/model"
	"github.com/okian/salaryband/internal/domain/scoring"
	"github.com/okian/salaryband/internal/domain/types"
	"github.com/okian/salaryband/pkg/logger"
	"github.com/okian/salaryband/pkg/metrics"
)

// Default service configuration.
const (
	defaultMaxBatchSize   = 1000
	defaultRequestTimeout = 5 * time.Second
)

// RuleSource supplies the active rule table.
type RuleSource interface {
	Table() (*banding.Table, error)
}

// Watcher is implemented by rule sources that can hot reload.
type Watcher interface {
	Watch(ctx context.Context) error
}

// Service evaluates profiles against the scorer and the active rule table.
type Service struct {
	mu sync.RWMutex

	scorer scoring.Scorer
	rules  RuleSource

	batchWorkers   int
	maxBatchSize   int
	requestTimeout time.Duration
	watchRules     bool

	now   func() time.Time
	newID func() string

	started bool
	cancel  context.CancelFunc

	evaluated        atomic.Int64
	invalidProfiles  atomic.Int64
	predictionErrors atomic.Int64
	configErrors     atomic.Int64
	sentinels        atomic.Int64
	bandCounts       map[string]int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBatchWorkers bounds concurrent evaluations within one batch.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}

// WithMaxBatchSize caps the number of profiles per batch.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithRequestTimeout bounds the scoring call of a single evaluation.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithRuleWatching makes Start hot reload the rule table when supported.
func WithRuleWatching(enabled bool) Option {
	return func(s *Service) {
		s.watchRules = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the evaluation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides evaluation id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a Service over a scorer and a rule source.
func New(scorer scoring.Scorer, rules RuleSource, opts ...Option) *Service {
	s := &Service{
		scorer:         scorer,
		rules:          rules,
		batchWorkers:   runtime.NumCPU(),
		maxBatchSize:   defaultMaxBatchSize,
		requestTimeout: defaultRequestTimeout,
		now:            time.Now,
		newID:          uuid.NewString,
		bandCounts:     make(map[string]int64),
		logger:         logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins background work such as rule watching.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting evaluation service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if w, ok := s.rules.(Watcher); ok && s.watchRules {
		if err := w.Watch(runCtx); err != nil {
			cancel()
			return fmt.Errorf("start rule watcher: %w", err)
		}
	}
	s.cancel = cancel
	s.started = true

	s.logger.Info(ctx, "evaluation service started",
		logger.Int("batchWorkers", s.batchWorkers),
		logger.Int("maxBatchSize", s.maxBatchSize),
		logger.Bool("watchRules", s.watchRules),
	)
	return nil
}

// Stop ends background work.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping evaluation service...")
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "evaluation service stopped")
}

// Evaluate validates the profile, scores it, and resolves its salary band.
func (s *Service) Evaluate(ctx context.Context, p model.Profile) (types.Evaluation, error) {
	if err := p.Validate(); err != nil {
		s.invalidProfiles.Add(1)
		metrics.RecordEvaluation(metrics.OutcomeInvalidProfile)
		return types.Evaluation{}, err
	}

	table, err := s.rules.Table()
	if err != nil {
		s.configErrors.Add(1)
		metrics.RecordEvaluation(metrics.OutcomeConfigurationError)
		return types.Evaluation{}, err
	}

	prob, err := s.score(ctx, p)
	if err != nil {
		s.predictionErrors.Add(1)
		metrics.RecordScoringError()
		metrics.RecordEvaluation(metrics.OutcomePredictionFailed)
		s.logger.Warn(ctx, "prediction failed",
			logger.String("profileID", p.CollegeID),
			logger.Error(err),
		)
		return types.Evaluation{}, err
	}

	res := table.Resolve(banding.Criteria{
		Probability: prob,
		CGPA:        p.CGPA,
		IQ:          p.IQ,
		Projects:    p.ProjectsCompleted,
	})
	s.recordBand(res)
	metrics.ObserveProbability(prob)
	metrics.RecordEvaluation(metrics.OutcomeOK)

	s.logger.Debug(ctx, "profile evaluated",
		logger.String("profileID", p.CollegeID),
		logger.Float64("probability", prob),
		logger.String("band", res.Band),
	)

	return types.Evaluation{
		ID:                 s.newID(),
		ProfileID:          p.CollegeID,
		Probability:        banding.Round4(prob),
		ProbabilityPercent: types.Percent(prob),
		Band:               res.Band,
		Matched:            !res.Sentinel(),
		Why:                res.Explain(),
		EvaluatedAt:        s.now().UTC(),
	}, nil
}

// score calls the scorer under the request timeout and guarantees that every
// failure wraps scoring.ErrPredictionFailed.
func (s *Service) score(ctx context.Context, p model.Profile) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	start := time.Now()
	prob, err := s.scorer.Score(ctx, p)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)

	if err != nil {
		if errors.Is(err, scoring.ErrPredictionFailed) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", scoring.ErrPredictionFailed, err)
	}
	if math.IsNaN(prob) || prob < 0 || prob > 1 {
		return 0, fmt.Errorf("%w: probability %v outside [0, 1]", scoring.ErrPredictionFailed, prob)
	}
	return prob, nil
}

func (s *Service) recordBand(res banding.Resolution) {
	s.evaluated.Add(1)
	if res.Sentinel() {
		s.sentinels.Add(1)
	}
	s.mu.Lock()
	s.bandCounts[res.Band]++
	s.mu.Unlock()
	metrics.RecordBand(res.Band, res.Sentinel())
}

// EvaluateBatch evaluates profiles concurrently. Per-profile failures are
// reported in place and the output order matches the input order.
func (s *Service) EvaluateBatch(ctx context.Context, profiles []model.Profile) (types.BatchResult, error) {
	if len(profiles) == 0 {
		return types.BatchResult{}, ErrEmptyBatch
	}
	if len(profiles) > s.maxBatchSize {
		return types.BatchResult{}, fmt.Errorf("%w: %d profiles, limit %d", ErrBatchTooLarge, len(profiles), s.maxBatchSize)
	}
	metrics.ObserveBatchSize(len(profiles))

	items := make([]types.BatchItem, len(profiles))
	var g errgroup.Group
	g.SetLimit(s.batchWorkers)
	for i, p := range profiles {
		g.Go(func() error {
			items[i].Index = i
			if err := ctx.Err(); err != nil {
				items[i].Error = err.Error()
				return nil
			}
			ev, err := s.Evaluate(ctx, p)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Evaluation = &ev
			return nil
		})
	}
	_ = g.Wait()

	res := types.BatchResult{Items: items}
	for _, it := range items {
		if it.Error != "" {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("batch interrupted: %w", err)
	}
	return res, nil
}

// Resolve runs only the band resolver for already known criteria.
func (s *Service) Resolve(_ context.Context, c banding.Criteria) (banding.Resolution, error) {
	if err := validateCriteria(c); err != nil {
		return banding.Resolution{}, err
	}
	table, err := s.rules.Table()
	if err != nil {
		s.configErrors.Add(1)
		return banding.Resolution{}, err
	}
	return table.Resolve(c), nil
}

// validateCriteria applies the profile bounds to caller-supplied criteria.
func validateCriteria(c banding.Criteria) error {
	var errs []error
	if math.IsNaN(c.Probability) || c.Probability < 0 || c.Probability > 1 {
		errs = append(errs, fmt.Errorf("probability %v outside [0, 1]", c.Probability))
	}
	if math.IsNaN(c.CGPA) || c.CGPA < 0 || c.CGPA > model.MaxCGPA {
		errs = append(errs, fmt.Errorf("cgpa %v outside [0, %.0f]", c.CGPA, model.MaxCGPA))
	}
	if c.IQ < 0 {
		errs = append(errs, fmt.Errorf("iq %d is negative", c.IQ))
	}
	if c.Projects < 0 {
		errs = append(errs, fmt.Errorf("projects_completed %d is negative", c.Projects))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCriteria, errors.Join(errs...))
}

// Bands returns the active rule table.
func (s *Service) Bands(_ context.Context) (*banding.Table, error) {
	return s.rules.Table()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bands := make(map[string]int64, len(s.bandCounts))
	for k, v := range s.bandCounts {
		bands[k] = v
	}
	stats := map[string]interface{}{
		"started":          s.started,
		"batchWorkers":     s.batchWorkers,
		"maxBatchSize":     s.maxBatchSize,
		"evaluated":        s.evaluated.Load(),
		"sentinel":         s.sentinels.Load(),
		"invalidProfiles":  s.invalidProfiles.Load(),
		"predictionErrors": s.predictionErrors.Load(),
		"configErrors":     s.configErrors.Load(),
		"bandCounts":       bands,
	}
	if t, err := s.rules.Table(); err == nil {
		stats["ruleBands"] = t.Len()
		stats["defaultBand"] = t.Default()
	}
	if v, ok := s.scorer.(interface{ Version() string }); ok {
		stats["modelVersion"] = v.Version()
	}
	return stats
}
