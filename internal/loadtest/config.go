// Package loadtest drives a running salary band service with generated
// profiles and reports how evaluations were distributed across bands.
package loadtest

import (
	"errors"
	"time"

	"github.com/okian/salaryband/pkg/logger"
)

// Error constants.
var (
	ErrUnhealthy     = errors.New("service is not healthy")
	ErrInvalidConfig = errors.New("invalid load test configuration")
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Profiles   int           // Number of profiles to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // Per-request timeout
	Seed       uint64        // Generator seed; zero picks one from the clock
	OutputFile string        // Optional JSON lines file for generated profiles
	Logger     logger.Logger // Defaults to a no-op logger
}

// Stats holds run statistics.
type Stats struct {
	Generated int
	Submitted int
	Succeeded int
	Failed    int
	ByBand    map[string]int
	ByStatus  map[int]int
	StartTime time.Time
	Duration  time.Duration
}

// Throughput returns evaluations per second.
func (s Stats) Throughput() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Submitted) / s.Duration.Seconds()
}
