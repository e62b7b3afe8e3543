package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/okian/salaryband/internal/domain/model"
)

// StepKind names a per-column preprocessing transform.
type StepKind string

// Supported preprocessing steps.
const (
	StepDrop        StepKind = "drop"
	StepPassthrough StepKind = "passthrough"
	StepScale       StepKind = "scale"
	StepOneHot      StepKind = "onehot"
)

// Step transforms one input column into zero or more features.
type Step struct {
	Column     string   `json:"column"`
	Kind       StepKind `json:"kind"`
	Mean       float64  `json:"mean,omitempty"`
	Std        float64  `json:"std,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// width is the number of features the step emits.
func (s Step) width() int {
	switch s.Kind {
	case StepDrop:
		return 0
	case StepOneHot:
		return len(s.Categories)
	default:
		return 1
	}
}

// Pipeline is a trained preprocessing plus logistic regression model.
// Features are emitted in step order and must line up with Coefficients.
type Pipeline struct {
	Version      string    `json:"version"`
	Columns      []string  `json:"columns"`
	Steps        []Step    `json:"steps"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

var _ Scorer = (*Pipeline)(nil)

// Width returns the length of the encoded feature vector.
func (p *Pipeline) Width() int {
	n := 0
	for _, s := range p.Steps {
		n += s.width()
	}
	return n
}

// Validate checks the pipeline against the profile schema and its own shape.
func (p *Pipeline) Validate() error {
	if !slices.Equal(p.Columns, model.Columns) {
		return fmt.Errorf("%w: pipeline columns %v, want %v", ErrSchemaMismatch, p.Columns, model.Columns)
	}

	var errs []error
	covered := make(map[string]bool, len(p.Columns))
	for i, s := range p.Steps {
		if !slices.Contains(p.Columns, s.Column) {
			errs = append(errs, fmt.Errorf("steps[%d]: unknown column %q", i, s.Column))
			continue
		}
		if covered[s.Column] {
			errs = append(errs, fmt.Errorf("steps[%d]: column %q already transformed", i, s.Column))
		}
		covered[s.Column] = true

		switch s.Kind {
		case StepDrop, StepPassthrough:
		case StepScale:
			if s.Std == 0 || math.IsNaN(s.Std) || math.IsNaN(s.Mean) {
				errs = append(errs, fmt.Errorf("steps[%d] %s: scale needs finite mean and non-zero std", i, s.Column))
			}
		case StepOneHot:
			if len(s.Categories) == 0 {
				errs = append(errs, fmt.Errorf("steps[%d] %s: onehot needs categories", i, s.Column))
			}
		default:
			errs = append(errs, fmt.Errorf("steps[%d] %s: unknown kind %q", i, s.Column, s.Kind))
		}
	}
	for _, col := range p.Columns {
		if !covered[col] {
			errs = append(errs, fmt.Errorf("column %q has no step", col))
		}
	}
	if w := p.Width(); w != len(p.Coefficients) {
		errs = append(errs, fmt.Errorf("%d coefficients for %d features", len(p.Coefficients), w))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidPipeline, errors.Join(errs...))
}

// Encode turns a row into the feature vector consumed by the linear model.
// Unknown one-hot categories encode as all zeros.
func (p *Pipeline) Encode(row model.Row) ([]float64, error) {
	if len(row) != len(p.Columns) {
		return nil, fmt.Errorf("%w: row has %d columns, want %d", ErrSchemaMismatch, len(row), len(p.Columns))
	}
	x := make([]float64, 0, p.Width())
	for _, s := range p.Steps {
		v, ok := row[s.Column]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchemaMismatch, s.Column)
		}
		switch s.Kind {
		case StepDrop:
		case StepPassthrough, StepScale:
			f, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("%w: column %q: %w", ErrSchemaMismatch, s.Column, err)
			}
			if s.Kind == StepScale {
				f = (f - s.Mean) / s.Std
			}
			x = append(x, f)
		case StepOneHot:
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: column %q: want string, got %T", ErrSchemaMismatch, s.Column, v)
			}
			for _, c := range s.Categories {
				if c == str {
					x = append(x, 1)
				} else {
					x = append(x, 0)
				}
			}
		}
	}
	return x, nil
}

// PredictProba returns the positive-class probability for row.
func (p *Pipeline) PredictProba(row model.Row) (float64, error) {
	x, err := p.Encode(row)
	if err != nil {
		return 0, err
	}
	if len(x) != len(p.Coefficients) {
		return 0, fmt.Errorf("%w: %d features for %d coefficients", ErrInvalidPipeline, len(x), len(p.Coefficients))
	}
	z := p.Intercept
	for i, w := range p.Coefficients {
		z += w * x[i]
	}
	return sigmoid(z), nil
}

// Score implements Scorer.
func (p *Pipeline) Score(ctx context.Context, profile model.Profile) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}
	prob, err := p.PredictProba(profile.Row())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}
	if math.IsNaN(prob) {
		return 0, fmt.Errorf("%w: probability is NaN", ErrPredictionFailed)
	}
	return prob, nil
}

func sigmoid(z float64) float64 {
	p := 1 / (1 + math.Exp(-z))
	return math.Max(0, math.Min(1, p))
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("not numeric: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
