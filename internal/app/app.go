// Package app composes configuration, logging, error interception and
// route registration into a runnable HTTP handler.
package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/sbilibin2017/bestellsystem/docs"
	"github.com/sbilibin2017/bestellsystem/internal/config"
	"github.com/sbilibin2017/bestellsystem/internal/handlers"
	"github.com/sbilibin2017/bestellsystem/internal/metrics"
	"github.com/sbilibin2017/bestellsystem/internal/middlewares"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

const readHeaderTimeout = 10 * time.Second

// New builds the router. Request logging and metrics wrap the panic
// recoverer so that recovered failures are still logged and counted.
func New(cfg *config.Config, log *zap.SugaredLogger, m *metrics.Metrics) http.Handler {
	log.Infow("Initializing application", "profile", cfg.Profile, "debug", cfg.Debug)

	r := chi.NewRouter()
	r.Use(middlewares.LoggingMiddleware(log.Named("http")))
	r.Use(m.Middleware)
	r.Use(middlewares.RecovererMiddleware(log.Named("errors")))

	// Must be set before Route so mounted subrouters inherit them.
	r.NotFound(handlers.NotFoundHandler(log.Named("errors")))
	r.MethodNotAllowed(handlers.MethodNotAllowedHandler(log.Named("errors")))

	r.Route(APIPrefix, func(r chi.Router) {
		registerV1(r, log.Named("api_v1"))
	})
	log.Infow("Registered API v1 routes", "prefix", APIPrefix)

	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if cfg.Debug {
		r.Mount("/debug", chimiddleware.Profiler())
		log.Infow("Profiler mounted", "prefix", "/debug")
	}

	log.Info("Application initialized successfully")
	return r
}

func registerV1(r chi.Router, log *zap.SugaredLogger) {
	r.Get("/health", handlers.Handle(log, handlers.NewHealthHandler(log)))
}

// Server returns an http.Server listening on the configured address.
func Server(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
