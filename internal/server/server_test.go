package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/config"
	"github.com/aristath/qrep/internal/di"
)

func setupServer(t *testing.T, cacheEnabled bool, origins ...string) *Server {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)
	cfg := &config.Config{
		DataDir:              t.TempDir(),
		Port:                 8010,
		DevMode:              true,
		DefaultFormat:        backend.Symbolic,
		CacheEnabled:         cacheEnabled,
		CacheTTL:             time.Hour,
		CacheCleanupSchedule: "@every 10m",
		CORSOrigins:          origins,
	}

	container, _, err := di.Wire(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	return New(Config{Log: log, Config: cfg, Container: container})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := setupServer(t, false)

	w := do(t, s, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "qrep", response["service"])
	assert.Equal(t, Version, response["version"])
}

func TestSystemStats(t *testing.T) {
	s := setupServer(t, false)

	w := do(t, s, "GET", "/api/system/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response SystemStatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.GreaterOrEqual(t, response.CPUPercent, 0.0)
	assert.GreaterOrEqual(t, response.RAMPercent, 0.0)
	assert.Positive(t, response.Goroutines)
	_, err := time.Parse(time.RFC3339, response.Timestamp)
	assert.NoError(t, err)
}

func TestDatabaseStats(t *testing.T) {
	s := setupServer(t, true)

	body := `{"format": "dense-numeric", "expr": {"type": "operator", "class": "Jz"}}`
	require.Equal(t, http.StatusOK, do(t, s, "POST", "/api/represent", body).Code)

	w := do(t, s, "GET", "/api/system/database", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response DatabaseStatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Enabled)
	assert.Equal(t, 1, response.Entries)
	assert.NotEmpty(t, response.Path)
}

func TestDatabaseStats_CacheDisabled(t *testing.T) {
	s := setupServer(t, false)

	w := do(t, s, "GET", "/api/system/database", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response DatabaseStatsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Enabled)
	assert.Zero(t, response.Entries)
}

func TestPurgeCache(t *testing.T) {
	s := setupServer(t, true)

	w := do(t, s, "POST", "/api/system/cache/purge", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(0), response["deleted"])

	disabled := setupServer(t, false)
	assert.Equal(t, http.StatusConflict, do(t, disabled, "POST", "/api/system/cache/purge", "").Code)
}

func TestRepresentRoutesMounted(t *testing.T) {
	s := setupServer(t, false)

	w := do(t, s, "GET", "/api/represent/catalog", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, "POST", "/api/represent", `{"expr": {"type": "ket", "class": "SHO", "label": ["1"]}, "format": "dense-numeric"}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, "GET", "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := setupServer(t, false)

	req := httptest.NewRequest("OPTIONS", "/api/represent", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfiguredOrigins(t *testing.T) {
	s := setupServer(t, false, "http://localhost:3000")

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("OPTIONS", "/api/represent", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, "http://localhost:3000", preflight("http://localhost:3000").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight("http://elsewhere.org").Header().Get("Access-Control-Allow-Origin"))
}
