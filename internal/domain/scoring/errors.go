package scoring

import "errors"

var (
	// ErrPredictionFailed wraps every failure to produce a probability.
	ErrPredictionFailed = errors.New("prediction failed")
	// ErrSchemaMismatch is returned when input columns differ from the trained schema.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrInvalidPipeline is returned when a pipeline's shape is inconsistent.
	ErrInvalidPipeline = errors.New("invalid pipeline")
)
