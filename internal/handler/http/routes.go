package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// operator-facing sync control surface
	router.Group(func(r chi.Router) {
		r.Post("/api/sync", h.startSync)
		r.Get("/api/sync/{sessionID}", h.getSyncStatus)
		r.Post("/api/sync/{sessionID}/cancel", h.cancelSync)
		r.Post("/api/sync/validate", h.validate)
		r.Get("/api/reports/{reportID}", h.getReport)
		r.Get("/api/version", h.getServerVersion)
	})

	// peer-facing sync protocol, mirrored by the remote instance adapter
	router.Group(func(r chi.Router) {
		r.Get("/api/entities/types", h.getEntityTypes)
		r.Get("/api/entities", h.getEntities)
		r.Get("/api/entities/changes", h.getEntityChanges)
		r.Get("/api/entities/exists", h.getEntityExists)
		r.Post("/api/entities/batch", h.applyEntityBatch)
		r.Post("/api/entities/replace", h.replaceEntities)

		r.Post("/api/snapshot/prepare", h.prepareSnapshot)
		r.Get("/api/snapshot", h.downloadSnapshot)
		r.Post("/api/snapshot", h.uploadSnapshot)
		r.Post("/api/snapshot/restore", h.restoreSnapshot)
	})

	return router
}
