package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hiroki-koketsu/studysprint/internal/route"
)

// NewRouter wires the pages, the JSON API and the standard middleware.
func NewRouter(pages *PageHandler, tasks *TaskHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	r.Use(middleware.Timeout(60 * time.Second))

	// Set before mounting so sub-routers inherit it.
	r.NotFound(pages.NotFound)

	// Health check endpoint (excluded from tracing)
	r.Get("/health", tasks.Health)

	r.Get(route.PathLanding, pages.Landing)

	r.Group(func(r chi.Router) {
		r.Use(pages.Sessions.LoadAndSave)

		r.Get(route.PathStats, pages.Stats)
		r.Route(route.PathTasks, func(r chi.Router) {
			r.Get("/", pages.Tasks)
			r.Post("/", pages.Submit)
			r.Post("/tasks/{id}/toggle", pages.Toggle)
			r.Post("/tasks/{id}/delete", pages.Delete)
		})

		r.Route("/api/v1", func(r chi.Router) {
			r.Mount("/tasks", tasks.Routes())
			r.Get("/stats", tasks.Stats)
		})
	})

	return r
}
