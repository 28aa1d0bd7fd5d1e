package server

import "net/http"

// Version is reported by the health endpoint.
const Version = "0.1.0"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "qrep",
	}

	writeJSON(w, http.StatusOK, response, s.log)
}
