// Package site serves the embedded operator documentation pages.
package site

import (
	"context"
	"net/http"
)

// Register mounts the embedded documentation under /docs/.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/docs/", http.StripPrefix("/docs", http.FileServer(FS())))
	mux.Handle("/docs", http.RedirectHandler("/docs/", http.StatusMovedPermanently))
}
