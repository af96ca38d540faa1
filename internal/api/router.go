package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(handler *Handler, health *HealthHandler, maxConcurrent int, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware (applied to all routes)
	r.Use(RecoveryMiddleware(logger))
	r.Use(CORSMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))

	// Health and metrics endpoints are registered BEFORE the rate limiter
	// so Kubernetes probes and Prometheus scrapes are never rejected under load.
	r.Get("/health", health.Health)
	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Rate limiter only applies to API routes below
	r.Group(func(r chi.Router) {
		rl := NewRateLimiter(maxConcurrent, logger)
		r.Use(rl.Middleware)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/frequently-bought-together/{productId}", handler.Related)
			r.Get("/personalized/{userId}", handler.Personalized)
		})
		r.Route("/search", func(r chi.Router) {
			r.Post("/smart", handler.SmartSearch)
			r.Post("/suggestions", handler.Suggestions)
		})
		r.Post("/chat", handler.Chat)
		r.Get("/analytics/top-queries", handler.TopQueries)
	})

	return r
}
