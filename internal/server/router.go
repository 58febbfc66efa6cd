// internal/server/router.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cpu-listings/internal/common/config"
	httputil "cpu-listings/internal/common/http"
	"cpu-listings/internal/common/logger"
	"cpu-listings/internal/common/observability"
	ba "cpu-listings/internal/handlers/cpu/budget-action"
	ll "cpu-listings/internal/handlers/cpu/load-listings"
	"cpu-listings/internal/listings"
)

const (
	ListingsPath = "/cpu-listings"
	HealthPath   = "/healthz"

	healthCheckTimeout = 2 * time.Second
)

// HealthChecker is satisfied by database.PostgresClient.
type HealthChecker interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

type Options struct {
	Config        *config.Config
	Source        listings.Source
	Health        HealthChecker
	Observability *observability.Observability
	Logger        logger.Logger
}

// NewRouter wires both listing routes, the health probe and the metrics
// endpoint behind the common middleware chain.
func NewRouter(opts Options) *mux.Router {
	cfg := opts.Config
	log := opts.Logger

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware(log), observeMiddleware(opts.Observability), recoverMiddleware(log))

	if hcfg := config.GetHandlerConfig(cfg, ll.Route); hcfg.Enabled {
		handler := ll.NewHandler(
			&ll.Config{Timeout: config.GetDuration(hcfg.Timeout)},
			opts.Source, log,
		)
		r.Handle(ListingsPath, handler).Methods(http.MethodGet).Name(ll.Route)
		log.Info("route registered", map[string]interface{}{"route": ll.Route, "timeout_ms": hcfg.Timeout})
	} else {
		log.Info("route disabled", map[string]interface{}{"route": ll.Route})
	}

	if hcfg := config.GetHandlerConfig(cfg, ba.Route); hcfg.Enabled {
		defaults := ba.LoadConfig()
		handler := ba.NewHandler(
			&ba.Config{Timeout: config.GetDuration(hcfg.Timeout), MaxMemory: defaults.MaxMemory},
			opts.Source, log,
		)
		r.Handle(ListingsPath, handler).Methods(http.MethodPost).Name(ba.Route)
		log.Info("route registered", map[string]interface{}{"route": ba.Route, "timeout_ms": hcfg.Timeout})
	} else {
		log.Info("route disabled", map[string]interface{}{"route": ba.Route})
	}

	r.HandleFunc(HealthPath, healthHandler(opts.Health, log)).Methods(http.MethodGet).Name("health")

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet).Name("metrics")
	}

	return r
}

func healthHandler(checker HealthChecker, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}
		status := http.StatusOK

		if checker != nil {
			if err := checker.HealthCheck(r.Context(), healthCheckTimeout); err != nil {
				log.Warn("health check failed", map[string]interface{}{"error": err})
				body["status"] = "unhealthy"
				body["error"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}

		_ = httputil.WriteJSON(w, status, body)
	}
}

// NewHTTPServer applies the configured timeouts to handler.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
		ReadHeaderTimeout: config.GetDuration(cfg.ReadTimeout),
		WriteTimeout:      config.GetDuration(cfg.WriteTimeout),
	}
}
