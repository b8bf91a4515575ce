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

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/ping", h.ping)
		r.Post("/pair", h.pair)
	})

	// routes that require a paired-session token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/sync", h.sync)
	})

	return router
}
