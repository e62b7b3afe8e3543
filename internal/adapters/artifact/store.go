package artifact

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/okian/salaryband/internal/domain/model"
	"github.com/okian/salaryband/internal/domain/scoring"
	"github.com/okian/salaryband/pkg/logger"
	"github.com/okian/salaryband/pkg/metrics"
)

// Store holds the active pipeline. Reads never block a reload.
type Store struct {
	path     string
	current  atomic.Pointer[scoring.Pipeline]
	logger   logger.Logger
	recorder func(ok bool)
}

var _ scoring.Scorer = (*Store)(nil)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets the logger used to report loads.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPipeline seeds the store with an already decoded pipeline.
func WithPipeline(p *scoring.Pipeline) Option {
	return func(s *Store) {
		if p != nil {
			s.current.Store(p)
		}
	}
}

// NewStore creates a store for the artifact at path. Nothing is read until
// Load is called.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		logger:   logger.NewNop(),
		recorder: metrics.RecordModelLoad,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the artifact location.
func (s *Store) Path() string { return s.path }

// Load reads the artifact and makes it current.
func (s *Store) Load(ctx context.Context) error {
	p, err := ReadFile(s.path)
	if err != nil {
		s.recorder(false)
		s.logger.Error(ctx, "model artifact load failed",
			logger.String("path", s.path),
			logger.Error(err),
		)
		return err
	}
	s.current.Store(p)
	s.recorder(true)
	s.logger.Info(ctx, "model artifact loaded",
		logger.String("path", s.path),
		logger.String("version", p.Version),
		logger.Int("features", p.Width()),
	)
	return nil
}

// Reload re-reads the artifact. On failure the previous pipeline stays active.
func (s *Store) Reload(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("reload model artifact: %w", err)
	}
	return nil
}

// Loaded reports whether a pipeline is available.
func (s *Store) Loaded() bool { return s.current.Load() != nil }

// Version returns the active pipeline version, or "" when nothing is loaded.
func (s *Store) Version() string {
	if p := s.current.Load(); p != nil {
		return p.Version
	}
	return ""
}

// Score delegates to the active pipeline.
func (s *Store) Score(ctx context.Context, p model.Profile) (float64, error) {
	pipe := s.current.Load()
	if pipe == nil {
		return 0, fmt.Errorf("%w: %w", scoring.ErrPredictionFailed, ErrNotLoaded)
	}
	return pipe.Score(ctx, p)
}
