package main

import (
	"net/http"

	apiMiddleware "github.com/dumblesdoor/socialkit/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)

	h := app.planHandler

	// Page
	r.Get("/", h.ShowPage)
	r.Post("/plan", h.SubmitForm)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Post("/plan", h.CreatePlan)
		r.Get("/plan", h.GetPlan)
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
