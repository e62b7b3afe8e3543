package rules

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/providers/file"

	"github.com/okian/salaryband/internal/domain/banding"
	"github.com/okian/salaryband/pkg/logger"
	"github.com/okian/salaryband/pkg/metrics"
)

// ErrNotLoaded is returned by Table before the first successful load.
var ErrNotLoaded = errors.New("rule table not loaded")

// Store holds the active rule table and swaps it atomically on reload.
type Store struct {
	path     string
	fallback string
	current  atomic.Pointer[banding.Table]
	logger   logger.Logger
	recorder func(ok bool, bands int)

	mu       sync.Mutex
	provider *file.File
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets the logger used to report loads and reloads.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultBand sets the sentinel used when the file does not name one.
func WithDefaultBand(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.fallback = name
		}
	}
}

// WithTable seeds the store with an already built table.
func WithTable(t *banding.Table) Option {
	return func(s *Store) {
		if t != nil {
			s.current.Store(t)
		}
	}
}

// NewStore creates a store for the rule table at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		fallback: banding.DefaultBand,
		logger:   logger.NewNop(),
		recorder: metrics.RecordRulesReload,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the rule table location.
func (s *Store) Path() string { return s.path }

// Table returns the active table.
func (s *Store) Table() (*banding.Table, error) {
	t := s.current.Load()
	if t == nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, ErrNotLoaded)
	}
	return t, nil
}

// Load reads the table and makes it current. A failed load leaves the
// previously active table in place.
func (s *Store) Load(ctx context.Context) error {
	t, err := LoadFile(s.path, s.fallback)
	if err != nil {
		s.recorder(false, s.bandCount())
		s.logger.Error(ctx, "rule table load failed",
			logger.String("path", s.path),
			logger.Error(err),
		)
		return err
	}
	s.current.Store(t)
	s.recorder(true, t.Len())
	s.logger.Info(ctx, "rule table loaded",
		logger.String("path", s.path),
		logger.Int("bands", t.Len()),
		logger.String("default_band", t.Default()),
	)
	for _, w := range t.Lint() {
		s.logger.Warn(ctx, "rule table lint", logger.String("warning", w))
	}
	return nil
}

// Reload is Load with a reload-specific error message.
func (s *Store) Reload(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("reload rule table: %w", err)
	}
	return nil
}

// Watch reloads the table whenever the file changes until ctx is done.
// It returns once the watcher is running.
func (s *Store) Watch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provider != nil {
		return errors.New("rule table already watched")
	}

	p := file.Provider(s.path)
	err := p.Watch(func(_ interface{}, werr error) {
		if werr != nil {
			s.logger.Error(ctx, "rule table watch error", logger.Error(werr))
			return
		}
		_ = s.Reload(ctx)
	})
	if err != nil {
		return fmt.Errorf("watch rule table: %w", err)
	}
	s.provider = p
	s.logger.Info(ctx, "watching rule table", logger.String("path", s.path))

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.provider != nil {
			_ = s.provider.Unwatch()
			s.provider = nil
		}
	}()
	return nil
}

func (s *Store) bandCount() int {
	if t := s.current.Load(); t != nil {
		return t.Len()
	}
	return 0
}
