package model

import "errors"

// Sentinel kinds for profile errors.
var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrMissingColumn  = errors.New("missing column")
)
