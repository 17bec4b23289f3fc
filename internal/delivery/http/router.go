package http

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portalsync/internal/delivery/http/middleware"
	"portalsync/internal/domain"
	"portalsync/internal/metrics"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(logger *slog.Logger,
	webhookSecret string,
	sync domain.SyncService,
	portal domain.PortalClient,
	db *sql.DB,
) http.Handler {
	webhooks := NewWebhookController(logger, sync)
	syncs := NewSyncController(logger, sync)
	events := NewEventController(logger, portal)

	r := chi.NewRouter()
	r.Use(middleware.Logging(logger))
	r.Use(metrics.Middleware())

	r.Get("/health", healthHandler(db))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/events", events.ListEvents)
	r.Get("/events/next", events.NextEvent)

	// Portal-facing endpoints share a secret with the portal.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSecret(webhookSecret))
		r.Post("/sync", syncs.SyncAll)
		r.Post("/sync/{portalID}", syncs.SyncOne)
		r.Post("/webhooks/events/updated", webhooks.EventUpdated)
		r.Post("/webhooks/events/deleted", webhooks.EventDeleted)
	})

	return r
}

// healthHandler reports readiness; the service is healthy once the database
// answers a ping.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			WriteJSONError(w, http.StatusServiceUnavailable, ErrCodeInternalError, "database unreachable")
			return
		}
		WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
