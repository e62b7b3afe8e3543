package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/salaryband/internal/domain/model"
	"github.com/okian/salaryband/pkg/logger"
)

const filePermission = 0o600

// Run checks service health, generates profiles, and evaluates them with a
// bounded worker pool. Individual request failures are counted, not fatal.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	if cfg.BaseURL == "" || cfg.Profiles <= 0 || cfg.Workers <= 0 {
		return Stats{}, fmt.Errorf("%w: base url, profiles and workers are required", ErrInvalidConfig)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	stats := Stats{
		ByBand:    make(map[string]int),
		ByStatus:  make(map[int]int),
		StartTime: time.Now(),
	}
	log.Info(ctx, "starting load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("profiles", cfg.Profiles),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", seed),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.health(ctx); err != nil {
		return stats, err
	}

	profiles := NewGenerator(seed).Profiles(cfg.Profiles)
	stats.Generated = len(profiles)
	if cfg.OutputFile != "" {
		if err := saveProfiles(cfg.OutputFile, profiles); err != nil {
			log.Warn(ctx, "failed to save profiles", logger.Error(err))
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, p := range profiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			status, ev, err := c.evaluate(gctx, p)
			mu.Lock()
			defer mu.Unlock()
			stats.Submitted++
			stats.ByStatus[status]++
			if err != nil {
				stats.Failed++
				log.Debug(gctx, "evaluation failed", logger.String("profileID", p.CollegeID), logger.Error(err))
				return nil
			}
			stats.Succeeded++
			stats.ByBand[ev.Band]++
			return nil
		})
	}
	_ = g.Wait()

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "load test finished",
		logger.Int("submitted", stats.Submitted),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Any("bands", stats.ByBand),
		logger.Float64("evaluationsPerSecond", stats.Throughput()),
	)
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load test interrupted: %w", err)
	}
	return stats, nil
}

// saveProfiles writes one JSON profile per line.
func saveProfiles(path string, profiles []model.Profile) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	enc := json.NewEncoder(f)
	for i, p := range profiles {
		if err := enc.Encode(p); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write profile %d: %w", i, err)
		}
	}
	return f.Close()
}
