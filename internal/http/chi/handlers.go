package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/inbox"
	"github.com/rs/zerolog"
)

const defaultMaxBodyBytes = 64 << 10

// Options tunes the notification API
type Options struct {
	Logger zerolog.Logger
	// TrustForwardedFor takes the sender from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustForwardedFor bool
	MaxBodyBytes      int64
	// Metrics is mounted on /metrics when set
	Metrics http.Handler
}

// NotificationHandlers sets up the notification API routes
func NotificationHandlers(ctx context.Context, service inbox.UseCase, registry *gateways.Registry, opts Options) *chi.Mux {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	r := chi.NewRouter()
	if opts.TrustForwardedFor {
		r.Use(middleware.RealIP)
	}
	r.Use(httplog.RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Method(http.MethodGet, "/gateways", getGateways(registry))
		r.Method(http.MethodPost, "/gateways/{gateway}/notifications", postNotification(service, opts.MaxBodyBytes))
		r.Method(http.MethodGet, "/gateways/{gateway}/notifications", getNotifications(service))
		r.Method(http.MethodGet, "/notifications/{id}", getNotification(service))
	})

	return r
}
