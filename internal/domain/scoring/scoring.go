// Package scoring defines the contract for turning a profile into a
// placement probability, and the linear pipeline that implements it.
package scoring

import (
	"context"

	"github.com/okian/salaryband/internal/domain/model"
)

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=scoringmock/mock_scorer.go -package=scoringmock . Scorer

// Scorer computes a placement probability in [0, 1] for one profile.
// Any failure is reported as an error wrapping ErrPredictionFailed.
type Scorer interface {
	// Score computes a probability, honoring ctx for cancellation.
	Score(ctx context.Context, p model.Profile) (float64, error)
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(ctx context.Context, p model.Profile) (float64, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, p model.Profile) (float64, error) {
	return f(ctx, p)
}
