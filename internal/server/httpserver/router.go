package httpserver

import (
	"log/slog"
	"net/http"
)

// RouterConfig holds configuration for the admin router.
type RouterConfig struct {
	// Metrics serves /metrics. Nil disables the route.
	Metrics http.Handler

	// AuthToken, when set, is required as a bearer token on /metrics.
	AuthToken string

	// Ready reports readiness for /ready. Nil means always ready.
	Ready func() bool

	// Logger for request logging.
	Logger *slog.Logger

	// EnableAudit logs every request.
	EnableAudit bool
}

// NewRouter creates the admin router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Order: RequestID -> Recover -> Audit -> handler
	common := []Middleware{RequestID(), Recover(logger)}
	if cfg.EnableAudit {
		common = append(common, Audit(logger))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", Chain(http.HandlerFunc(handleHealth), common...))
	mux.Handle("GET /ready", Chain(handleReady(cfg.Ready), common...))

	if cfg.Metrics != nil {
		mw := append(common[:len(common):len(common)], MetricsAuth(cfg.AuthToken))
		mux.Handle("GET /metrics", Chain(cfg.Metrics, mw...))
	}

	return mux
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		EnableAudit: true,
	}
}
