package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/modules/catalog"
	"github.com/aristath/qrep/internal/modules/oscillator"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/qexpr"
	testutil "github.com/aristath/qrep/internal/testing"
)

const matrixElementBody = `{
	"format": "dense-numeric",
	"options": {"ndim": 3},
	"expr": {"type": "product", "args": [
		{"type": "bra", "class": "SHO", "label": ["1"]},
		{"type": "operator", "class": "LoweringOp"},
		{"type": "ket", "class": "SHO", "label": ["2"]}
	]}
}`

func setupHandler(t *testing.T, cache *representation.Cache) *Handler {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	service := representation.NewService(representation.NewEngine(logger), cache, logger)
	return NewHandler(service, catalog.New(), backend.Symbolic, logger)
}

func setupCache(t *testing.T) *representation.Cache {
	t.Helper()
	return representation.NewCache(testutil.NewTestDB(t, "cache"), time.Hour, zerolog.Nop())
}

func post(handler http.HandlerFunc, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

type representResponse struct {
	Data struct {
		Expr   string          `json:"expr"`
		Format string          `json:"format"`
		Kind   string          `json:"kind"`
		Result backend.Payload `json:"result"`
	} `json:"data"`
	Metadata struct {
		Timestamp string `json:"timestamp"`
		Cached    bool   `json:"cached"`
	} `json:"metadata"`
}

func decodeRepresent(t *testing.T, w *httptest.ResponseRecorder) representResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp representResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHandleRepresent_MatrixElement(t *testing.T) {
	handler := setupHandler(t, nil)

	resp := decodeRepresent(t, post(handler.HandleRepresent, "/api/represent", "application/json", matrixElementBody))

	assert.Equal(t, "dense-numeric", resp.Data.Format)
	require.NotEmpty(t, resp.Data.Result.Re)
	assert.InDelta(t, math.Sqrt2, resp.Data.Result.Re[0], 1e-12)
	assert.InDelta(t, 0, resp.Data.Result.Im[0], 1e-12)
	assert.False(t, resp.Metadata.Cached)
	_, err := time.Parse(time.RFC3339, resp.Metadata.Timestamp)
	assert.NoError(t, err)
}

func TestHandleRepresent_YAMLBody(t *testing.T) {
	handler := setupHandler(t, nil)

	body := `
format: dense-numeric
expr:
  type: commutator
  args:
    - {type: operator, class: Jx}
    - {type: operator, class: Jy}
`
	resp := decodeRepresent(t, post(handler.HandleRepresent, "/api/represent", "application/yaml", body))

	assert.Equal(t, string(backend.KindDense), resp.Data.Kind)
	assert.Equal(t, 2, resp.Data.Result.Rows)
	assert.Equal(t, 2, resp.Data.Result.Cols)
	assert.InDelta(t, 0.5, resp.Data.Result.Im[0], 1e-12)
	assert.InDelta(t, -0.5, resp.Data.Result.Im[3], 1e-12)
}

func TestHandleRepresent_DefaultFormatAndBasis(t *testing.T) {
	handler := setupHandler(t, nil)

	// symbolic by default, so the number basis rule yields a symbolic matrix
	body := `{"basis": "N", "index": 2, "expr": {"type": "operator", "class": "RaisingOp"}}`
	resp := decodeRepresent(t, post(handler.HandleRepresent, "/api/represent", "", body))

	assert.Equal(t, "symbolic", resp.Data.Format)
	assert.Equal(t, string(backend.KindSymbolic), resp.Data.Kind)
	assert.NotEmpty(t, resp.Data.Result.Expr)
}

func TestHandleRepresent_Cached(t *testing.T) {
	handler := setupHandler(t, setupCache(t))

	first := decodeRepresent(t, post(handler.HandleRepresent, "/api/represent", "application/json", matrixElementBody))
	assert.False(t, first.Metadata.Cached)

	second := decodeRepresent(t, post(handler.HandleRepresent, "/api/represent", "application/json", matrixElementBody))
	assert.True(t, second.Metadata.Cached)
	assert.Equal(t, first.Data.Result, second.Data.Result)
}

func TestHandleRepresent_BadRequests(t *testing.T) {
	handler := setupHandler(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"expr": `},
		{"missing expression", `{"format": "symbolic"}`},
		{"unknown class", `{"expr": {"type": "ket", "class": "Nope", "label": ["0"]}}`},
		{"unknown node type", `{"expr": {"type": "integral"}}`},
		{"unknown format", `{"format": "holographic", "expr": {"type": "operator", "class": "N"}}`},
		{"unknown basis", `{"basis": "Nope", "expr": {"type": "operator", "class": "N"}}`},
		{"negative index", `{"index": -1, "expr": {"type": "operator", "class": "N"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(handler.HandleRepresent, "/api/represent", "application/json", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHandleRepresent_CacheSeparatesFamilies(t *testing.T) {
	handler := setupHandler(t, setupCache(t))

	tests := []struct {
		name    string
		cached  string
		generic string
	}{
		{
			"number operator",
			`{"format": "dense-numeric", "expr": {"type": "operator", "class": "N"}}`,
			`{"format": "dense-numeric", "expr": {"type": "operator", "class": "Operator", "label": ["N"]}}`,
		},
		{
			"number state",
			`{"format": "dense-numeric", "expr": {"type": "ket", "class": "SHO", "label": ["1"]}}`,
			`{"format": "dense-numeric", "expr": {"type": "ket", "class": "Ket", "label": ["1"]}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := decodeRepresent(t, post(handler.HandleRepresent, "/api/represent", "application/json", tt.cached))
			assert.False(t, first.Metadata.Cached)

			w := post(handler.HandleRepresent, "/api/represent", "application/json", tt.generic)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.NotContains(t, w.Body.String(), `"cached":true`)
		})
	}
}

func TestHandleRepresent_OutOfRange(t *testing.T) {
	handler := setupHandler(t, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"zero ndim", `{"format": "dense-numeric", "options": {"ndim": 0}, "expr": {"type": "operator", "class": "N"}}`, http.StatusBadRequest},
		{"huge ndim", `{"format": "dense-numeric", "options": {"ndim": 1000000000}, "expr": {"type": "operator", "class": "N"}}`, http.StatusBadRequest},
		{"fractional ndim", `{"format": "dense-numeric", "options": {"ndim": 2.5}, "expr": {"type": "operator", "class": "N"}}`, http.StatusBadRequest},
		{"level outside ndim", `{"format": "dense-numeric", "options": {"ndim": 2}, "expr": {"type": "ket", "class": "SHO", "label": ["5"]}}`, http.StatusBadRequest},
		{"malformed j", `{"format": "dense-numeric", "options": {"j": "x/y"}, "expr": {"type": "operator", "class": "Jz"}}`, http.StatusBadRequest},
		{"negative j", `{"format": "dense-numeric", "options": {"j": -1}, "expr": {"type": "operator", "class": "Jz"}}`, http.StatusBadRequest},
		{"huge j", `{"format": "dense-numeric", "options": {"j": 1000000000}, "expr": {"type": "operator", "class": "Jz"}}`, http.StatusBadRequest},
		{"huge matrix power", `{"format": "dense-numeric", "expr": {"type": "power", "args": [
			{"type": "operator", "class": "N"}, {"type": "number", "value": "1000000000000"}]}}`, http.StatusUnprocessableEntity},
		{"overflowing scalar power", `{"format": "dense-numeric", "expr": {"type": "power", "args": [
			{"type": "number", "value": "2"}, {"type": "number", "value": "1000000000000"}]}}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(handler.HandleRepresent, "/api/represent", "application/json", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestHandleRepresent_Unrepresentable(t *testing.T) {
	handler := setupHandler(t, nil)

	body := `{"format": "dense-numeric", "expr": {"type": "ket", "class": "Ket", "label": ["psi"]}}`
	w := post(handler.HandleRepresent, "/api/represent", "application/json", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "no representation rule")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", representation.ErrType), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", representation.ErrNotImplementedRule), http.StatusUnprocessableEntity},
		{representation.ErrBasisResolution, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: ndim must be between 1 and 512, got 0", representation.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("matrix power: %w", backend.ErrTooLarge), http.StatusUnprocessableEntity},
		{fmt.Errorf("add: %w", backend.ErrShape), http.StatusUnprocessableEntity},
		{backend.ErrUnsupported, http.StatusUnprocessableEntity},
		{backend.ErrNotNumeric, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestHandleApply(t *testing.T) {
	handler := setupHandler(t, nil)

	body := `{"expr": {"type": "product", "args": [
		{"type": "operator", "class": "LoweringOp"},
		{"type": "ket", "class": "SHO", "label": ["3"]}
	]}}`
	w := post(handler.HandleApply, "/api/represent/apply", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})

	three := oscillator.NewKet(qexpr.Integer(3))
	want := qexpr.Apply(qexpr.Mul(oscillator.A(), three)).String()
	assert.Equal(t, want, data["result"])

	w = post(handler.HandleApply, "/api/represent/apply", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetCatalog(t *testing.T) {
	handler := setupHandler(t, nil)

	req := httptest.NewRequest("GET", "/api/represent/catalog", nil)
	w := httptest.NewRecorder()
	handler.HandleGetCatalog(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Objects []catalog.Entry `json:"objects"`
			Count   int             `json:"count"`
			Formats []string        `json:"formats"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	assert.Equal(t, len(catalog.New().Entries()), response.Data.Count)
	assert.Len(t, response.Data.Objects, response.Data.Count)
	assert.ElementsMatch(t, []string{"symbolic", "dense-numeric", "sparse-numeric"}, response.Data.Formats)
}

func TestRegisterRoutes(t *testing.T) {
	handler := setupHandler(t, nil)

	router := chi.NewRouter()
	assert.NotPanics(t, func() {
		router.Route("/api", handler.RegisterRoutes)
	})

	req := httptest.NewRequest("POST", "/api/represent", bytes.NewReader([]byte(matrixElementBody)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/represent/catalog", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/represent", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
