package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrEmptyBatch      = errors.New("batch is empty")
	ErrBatchTooLarge   = errors.New("batch too large")
	ErrInvalidCriteria = errors.New("invalid criteria")
)
