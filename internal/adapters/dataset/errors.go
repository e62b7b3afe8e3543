package dataset

import "errors"

// Error constants.
var (
	ErrEmpty    = errors.New("csv has no header row")
	ErrBadValue = errors.New("bad csv value")
)
