package artifact

import "errors"

// Sentinel kinds for artifact errors.
var (
	ErrNotLoaded = errors.New("model artifact not loaded")
	ErrDecode    = errors.New("decode model artifact")
)
