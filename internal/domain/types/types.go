// Package types contains common types used across the application
package types

import (
	"math"
	"time"

	"github.com/okian/salaryband/internal/domain/banding"
)

// Evaluation is the recommendation returned for one profile.
type Evaluation struct {
	ID                 string              `json:"id"`
	ProfileID          string              `json:"profile_id"`
	Probability        float64             `json:"placement_probability"`
	ProbabilityPercent float64             `json:"placement_probability_percent"`
	Band               string              `json:"salary_band"`
	Matched            bool                `json:"matched"`
	Why                banding.Explanation `json:"why"`
	EvaluatedAt        time.Time           `json:"evaluated_at"`
}

// BatchItem is one slot of a batch response. Exactly one of Evaluation or
// Error is set.
type BatchItem struct {
	Index      int         `json:"index"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// BatchResult is the ordered outcome of a batch evaluation.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// Percent converts a probability to a percentage rounded to one decimal.
func Percent(p float64) float64 {
	return math.Round(p*1000) / 10
}
