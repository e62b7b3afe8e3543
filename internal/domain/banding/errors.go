package banding

import "errors"

// Sentinel kinds for rule table errors.
var (
	ErrInvalidBand = errors.New("invalid band")
)
