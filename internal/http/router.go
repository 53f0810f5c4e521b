package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/channel-keeper/internal/config"
	"github.com/tendant/channel-keeper/internal/http/features/events"
	"github.com/tendant/channel-keeper/internal/http/middleware"
	"github.com/tendant/channel-keeper/internal/httputil"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger             *slog.Logger
	Reconciler         events.Reconciler
	SigningSecret      string
	RateLimit          config.RateLimitConfig
	MaxRequestBodySize int64
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	// Liveness for process supervisors
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register the Slack events webhook
	eventsHandler := events.NewHandler(cfg.Logger, cfg.Reconciler)
	r.Group(func(r chi.Router) {
		r.Use(middleware.EventsRateLimiter(cfg.RateLimit, cfg.Logger))
		r.Use(middleware.VerifySlackSignature(cfg.SigningSecret, cfg.Logger))
		r.Post("/slack/events", eventsHandler.Receive)
	})

	return r
}
