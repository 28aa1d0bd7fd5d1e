// Package handlers provides HTTP handlers for representing quantum expressions.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/modules/catalog"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/qexpr"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handler handles representation HTTP requests
type Handler struct {
	service       *representation.Service
	catalog       *catalog.Registry
	defaultFormat backend.Format
	log           zerolog.Logger
}

// NewHandler creates a new representation handler
func NewHandler(
	service *representation.Service,
	registry *catalog.Registry,
	defaultFormat backend.Format,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service:       service,
		catalog:       registry,
		defaultFormat: defaultFormat,
		log:           log.With().Str("handler", "representation").Logger(),
	}
}

// RepresentRequest is the body of POST /api/represent. It may be sent as JSON
// or, with a YAML content type, as YAML.
type RepresentRequest struct {
	Expr    *qexpr.Node    `json:"expr" yaml:"expr"`
	Format  string         `json:"format,omitempty" yaml:"format,omitempty"`
	Basis   string         `json:"basis,omitempty" yaml:"basis,omitempty"`
	Index   int            `json:"index,omitempty" yaml:"index,omitempty"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// ApplyRequest is the body of POST /api/represent/apply
type ApplyRequest struct {
	Expr *qexpr.Node `json:"expr" yaml:"expr"`
}

// HandleRepresent handles POST /api/represent
func (h *Handler) HandleRepresent(w http.ResponseWriter, r *http.Request) {
	var req RepresentRequest
	if err := decodeBody(r, &req); err != nil || req.Expr == nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	expr, err := req.Expr.Build(h.catalog)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts, err := h.options(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := h.service.Represent(r.Context(), expr, opts)
	if err != nil {
		status := statusFor(err)
		h.log.Warn().
			Err(err).
			Str("expr", expr.String()).
			Str("options", opts.Fingerprint()).
			Int("status", status).
			Msg("Representation failed")
		http.Error(w, err.Error(), status)
		return
	}

	h.log.Debug().
		Str("expr", expr.String()).
		Str("kind", string(result.Payload.Kind)).
		Bool("cached", result.Cached).
		Dur("took", time.Since(start)).
		Msg("Represented expression")

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"expr":   expr.String(),
			"format": opts.Format,
			"kind":   result.Payload.Kind,
			"result": result.Payload,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"cached":    result.Cached,
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleApply handles POST /api/represent/apply
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := decodeBody(r, &req); err != nil || req.Expr == nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	expr, err := req.Expr.Build(h.catalog)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"expr":   expr.String(),
			"result": qexpr.Apply(expr).String(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetCatalog handles GET /api/represent/catalog
func (h *Handler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	entries := h.catalog.Entries()

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"objects": entries,
			"count":   len(entries),
			"formats": backend.Formats,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) options(req RepresentRequest) (representation.Options, error) {
	format := h.defaultFormat
	if req.Format != "" {
		f, err := backend.ParseFormat(req.Format)
		if err != nil {
			return representation.Options{}, err
		}
		format = f
	}
	if req.Index < 0 {
		return representation.Options{}, fmt.Errorf("index must not be negative, got %d", req.Index)
	}

	opts := representation.NewOptions(format).WithIndex(req.Index)
	if req.Basis != "" {
		basis, err := h.catalog.Basis(req.Basis)
		if err != nil {
			return representation.Options{}, err
		}
		opts = opts.WithBasis(basis)
	}
	for k, v := range req.Options {
		opts = opts.WithExtra(k, v)
	}
	return opts, nil
}

// statusFor maps representation failures to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, representation.ErrType),
		errors.Is(err, representation.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, representation.ErrNotImplementedRule),
		errors.Is(err, representation.ErrBasisResolution),
		errors.Is(err, backend.ErrTooLarge),
		errors.Is(err, backend.ErrShape),
		errors.Is(err, backend.ErrUnsupported),
		errors.Is(err, backend.ErrNotNumeric):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func decodeBody(r *http.Request, v interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return yaml.NewDecoder(body).Decode(v)
	}
	return json.NewDecoder(body).Decode(v)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
