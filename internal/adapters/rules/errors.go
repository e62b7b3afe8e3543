package rules

import "errors"

// Sentinel kinds for rule table errors.
var (
	// ErrConfig marks any problem that prevents a rule table from loading.
	ErrConfig = errors.New("rule table configuration error")
	// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported rule table format")
)
