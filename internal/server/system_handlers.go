package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/qrep/internal/database"
)

// CacheStore is the part of the result cache the system endpoints need.
type CacheStore interface {
	Count(ctx context.Context) (int, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// SystemHandlers serves host and cache statistics
type SystemHandlers struct {
	log       zerolog.Logger
	dataDir   string
	cacheDB   *database.DB
	cache     CacheStore
	startedAt time.Time
}

// NewSystemHandlers creates system handlers. cacheDB and cache may be nil.
func NewSystemHandlers(log zerolog.Logger, dataDir string, cacheDB *database.DB, cache CacheStore) *SystemHandlers {
	h := &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		dataDir:   dataDir,
		cacheDB:   cacheDB,
		startedAt: time.Now(),
	}
	// the cache is only usable alongside its database
	if cacheDB != nil && cache != nil {
		h.cache = cache
	}
	return h
}

// SystemStatsResponse is the body of GET /api/system/stats
type SystemStatsResponse struct {
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	Goroutines    int     `json:"goroutines"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	Timestamp     string  `json:"timestamp"`
}

// DatabaseStatsResponse is the body of GET /api/system/database
type DatabaseStatsResponse struct {
	Enabled     bool    `json:"enabled"`
	Path        string  `json:"path,omitempty"`
	SizeMB      float64 `json:"size_mb"`
	Entries     int     `json:"entries"`
	LastChecked string  `json:"last_checked"`
}

// HandleSystemStats returns CPU, memory and runtime statistics
func (h *SystemHandlers) HandleSystemStats(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatsResponse{
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Timestamp:     time.Now().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

// HandleDatabaseStats returns result cache statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting database stats")

	response := DatabaseStatsResponse{
		LastChecked: time.Now().Format(time.RFC3339),
	}

	if h.cacheDB != nil {
		response.Enabled = true
		response.Path = h.cacheDB.Path()
		if info, err := os.Stat(h.cacheDB.Path()); err == nil {
			response.SizeMB = float64(info.Size()) / 1024 / 1024
		}
	}
	if h.cache != nil {
		n, err := h.cache.Count(r.Context())
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to count cache entries")
			http.Error(w, "Failed to read cache", http.StatusInternalServerError)
			return
		}
		response.Entries = n
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

// HandlePurgeCache deletes expired cache entries
func (h *SystemHandlers) HandlePurgeCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		http.Error(w, "Cache disabled", http.StatusConflict)
		return
	}

	deleted, err := h.cache.DeleteExpired(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to purge cache")
		http.Error(w, "Failed to purge cache", http.StatusInternalServerError)
		return
	}

	h.log.Info().Int64("deleted", deleted).Msg("Cache purged on request")
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": deleted}, h.log)
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so the call does not block for long
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
