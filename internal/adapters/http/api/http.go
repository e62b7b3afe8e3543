// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/salaryband/internal/adapters/rules"
	service "github.com/okian/salaryband/internal/app"
	"github.com/okian/salaryband/internal/domain/banding"
	"github.com/okian/salaryband/internal/domain/model"
	"github.com/okian/salaryband/internal/domain/scoring"
	"github.com/okian/salaryband/internal/domain/types"
)

var errMultipleDocuments = errors.New("request body must contain a single JSON document")

// maxBodyBytes caps request bodies; batches of a thousand profiles fit easily.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Evaluate(ctx context.Context, p model.Profile) (types.Evaluation, error)
	EvaluateBatch(ctx context.Context, profiles []model.Profile) (types.BatchResult, error)
	Resolve(ctx context.Context, c banding.Criteria) (banding.Resolution, error)
	Bands(ctx context.Context) (*banding.Table, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	evaluateHandler *EvaluateHandler
	resolveHandler  *ResolveHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		evaluateHandler: NewEvaluateHandler(deps),
		resolveHandler:  NewResolveHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleHealth)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("/evaluate/batch", MetricsMiddleware(s.evaluateHandler.HandleEvaluateBatch, "evaluate_batch"))
	mux.HandleFunc("/resolve", MetricsMiddleware(s.resolveHandler.HandleResolve, "resolve"))
	mux.HandleFunc("/bands", MetricsMiddleware(s.resolveHandler.HandleBands, "bands"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// errorClass maps an error kind onto its HTTP status and response code.
type errorClass struct {
	kind   error
	status int
	code   string
}

var errorClasses = []errorClass{ //nolint:gochecknoglobals // static lookup table
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{model.ErrInvalidProfile, http.StatusBadRequest, "bad_request"},
	{service.ErrInvalidCriteria, http.StatusBadRequest, "bad_request"},
	{service.ErrEmptyBatch, http.StatusBadRequest, "bad_request"},
	{service.ErrBatchTooLarge, http.StatusRequestEntityTooLarge, "batch_too_large"},
	{scoring.ErrPredictionFailed, http.StatusBadGateway, "prediction_failed"},
	{rules.ErrConfig, http.StatusServiceUnavailable, "configuration_error"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
}

// writeKindError classifies err and writes the matching error response.
func writeKindError(w http.ResponseWriter, op string, err error) {
	for _, c := range errorClasses {
		if errors.Is(err, c.kind) {
			writeError(w, c.status, c.code, Wrap(op, err))
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
}

func methodNotAllowed(w http.ResponseWriter, op, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
}

// decodeJSON reads a single JSON document, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	const op = "api.decode"
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return WrapKind(op, ErrBadRequest, errMultipleDocuments)
	}
	return nil
}
