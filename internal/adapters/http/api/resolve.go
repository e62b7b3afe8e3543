package api

import (
	"context"
	"net/http"

	"github.com/okian/salaryband/internal/domain/banding"
)

// ResolveDependencies defines the interface for band-only operations.
type ResolveDependencies interface {
	Resolve(ctx context.Context, c banding.Criteria) (banding.Resolution, error)
	Bands(ctx context.Context) (*banding.Table, error)
}

// ResolveHandler handles resolve and rule table requests.
type ResolveHandler struct {
	deps ResolveDependencies
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(deps ResolveDependencies) *ResolveHandler {
	return &ResolveHandler{deps: deps}
}

type resolveResponse struct {
	Band    string              `json:"salary_band"`
	Matched bool                `json:"matched"`
	Index   int                 `json:"index"`
	Why     banding.Explanation `json:"why"`
}

type bandsResponse struct {
	DefaultBand string         `json:"default_band"`
	Bands       []banding.Band `json:"bands"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// HandleResolve handles POST /resolve requests.
func (h *ResolveHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, op, http.MethodPost)
		return
	}
	var c banding.Criteria
	if err := decodeJSON(w, r, &c); err != nil {
		writeKindError(w, op, err)
		return
	}
	res, err := h.deps.Resolve(r.Context(), c)
	if err != nil {
		writeKindError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Band:    res.Band,
		Matched: !res.Sentinel(),
		Index:   res.Index,
		Why:     res.Explain(),
	})
}

// HandleBands handles GET /bands requests.
func (h *ResolveHandler) HandleBands(w http.ResponseWriter, r *http.Request) {
	const op = "api.bands"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, op, http.MethodGet)
		return
	}
	table, err := h.deps.Bands(r.Context())
	if err != nil {
		writeKindError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, bandsResponse{
		DefaultBand: table.Default(),
		Bands:       table.Bands(),
		Warnings:    table.Lint(),
	})
}
