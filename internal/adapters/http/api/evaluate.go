package api

import (
	"context"
	"net/http"

	"github.com/okian/salaryband/internal/domain/model"
	"github.com/okian/salaryband/internal/domain/types"
)

// EvaluateDependencies defines the interface for profile evaluation.
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, p model.Profile) (types.Evaluation, error)
	EvaluateBatch(ctx context.Context, profiles []model.Profile) (types.BatchResult, error)
}

// EvaluateHandler handles evaluation requests.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// batchRequest mirrors the OpenAPI schema for POST /evaluate/batch.
type batchRequest struct {
	Profiles []model.Profile `json:"profiles"`
}

// HandleEvaluate handles POST /evaluate requests.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, op, http.MethodPost)
		return
	}
	var p model.Profile
	if err := decodeJSON(w, r, &p); err != nil {
		writeKindError(w, op, err)
		return
	}
	p.Internship = model.NormalizeInternship(p.Internship)

	ev, err := h.deps.Evaluate(r.Context(), p)
	if err != nil {
		writeKindError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleEvaluateBatch handles POST /evaluate/batch requests.
func (h *EvaluateHandler) HandleEvaluateBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate_batch"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, op, http.MethodPost)
		return
	}
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeKindError(w, op, err)
		return
	}
	for i := range req.Profiles {
		req.Profiles[i].Internship = model.NormalizeInternship(req.Profiles[i].Internship)
	}

	res, err := h.deps.EvaluateBatch(r.Context(), req.Profiles)
	if err != nil {
		writeKindError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
