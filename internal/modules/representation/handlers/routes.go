package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all representation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/represent", func(r chi.Router) {
		r.Post("/", h.HandleRepresent)
		r.Post("/apply", h.HandleApply)
		r.Get("/catalog", h.HandleGetCatalog)
	})
}
