// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// PageCraft server. It organizes routes into the JSON API and the public
// site.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pagecraft/internal/handlers"
	"pagecraft/internal/middleware"
)

// New creates and returns the configured Chi router. convertLimiter and
// metricsHandler may be nil, which disables conversion rate limiting and
// the /metrics endpoint.
func New(api *handlers.API, public *handlers.Public, convertLimiter *middleware.RateLimiter, metricsHandler http.Handler, log *slog.Logger) chi.Router {
	if log == nil {
		log = slog.Default()
	}
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.NotFound(apiNotFound)

		r.Group(func(r chi.Router) {
			if convertLimiter != nil {
				r.Use(convertLimiter.Middleware)
			}
			r.Post("/convert", api.Convert)
		})
		r.Post("/render", api.Render)
		r.Get("/modules", api.Modules)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", api.ListTemplates)
			r.Get("/resolve", api.ResolveTemplate)
			r.Post("/import", api.ImportTemplate)
			r.Get("/{id}/export", api.ExportTemplate)
			r.Post("/{id}/activate", api.ActivateTemplate)
			r.Post("/{id}/deactivate", api.DeactivateTemplate)
			r.Delete("/{id}", api.DeleteTemplate)
		})

		r.Get("/pages", api.ListPages)
		r.Post("/pages", api.CreatePage)
		r.Route("/pages/{id}", func(r chi.Router) {
			r.Get("/", api.GetPage)
			r.Put("/", api.SavePage)
			r.Delete("/", api.DeletePage)
			r.Get("/revisions", api.PageRevisions)
		})

		r.Route("/revisions/{id}", func(r chi.Router) {
			r.Get("/", api.GetRevision)
			r.Post("/restore", api.RestoreRevision)
		})
	})

	// Public routes, served by the render engine.
	r.Get("/", public.Homepage)
	r.Get("/*", public.Page)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"not found"}`))
}
