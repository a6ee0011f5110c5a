// Package httptransport assembles the HTTP surface: middleware chain,
// feature handlers, and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"legado/internal/platform/metrics"
	"legado/internal/platform/middleware"
	"legado/internal/transport/http/shared"
)

// Registrar is anything that can attach routes to the router. Feature
// handlers implement it.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports whether one backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Config carries everything the router needs beyond the handlers.
type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	// Checks maps dependency name to its health probe; nil values are
	// skipped so unconfigured backends don't fail the endpoint.
	Checks map[string]HealthChecker
}

// NewRouter wires middleware, feature routes, and operational endpoints.
func NewRouter(cfg Config, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Latency(cfg.Metrics))

	for _, h := range handlers {
		h.Register(r)
	}

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(cfg.Checks))

	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := make(map[string]string, len(checks)+1)
		report["status"] = "ok"
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				report[name] = err.Error()
				report["status"] = "degraded"
				continue
			}
			report[name] = "ok"
		}

		shared.WriteJSON(w, status, report)
	}
}
