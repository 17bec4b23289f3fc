package http

import (
	"log/slog"
	"net/http"

	"portalsync/internal/domain"
)

// EventChangedRequest is the change-notification payload the portal posts to
// the webhook endpoints.
type EventChangedRequest struct {
	EventID int `json:"event_id"`
}

// Validate implements Validator.
func (r EventChangedRequest) Validate() []string {
	if r.EventID <= 0 {
		return []string{"event_id is required"}
	}
	return nil
}

// WebhookController handles inbound event change notifications from the
// portal, driving the reconciler's individual-event path.
type WebhookController struct {
	Logger  *slog.Logger
	Service domain.SyncService
}

func NewWebhookController(logger *slog.Logger, svc domain.SyncService) *WebhookController {
	return &WebhookController{
		Logger:  logger,
		Service: svc,
	}
}

// EventUpdated handles POST /webhooks/events/updated. The event may have been
// created, edited, or even deleted by the time we look it up; the reconciler
// resolves the current state.
func (c *WebhookController) EventUpdated(w http.ResponseWriter, r *http.Request) {
	var req EventChangedRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.SyncOne(r.Context(), req.EventID); err != nil {
		c.Logger.ErrorContext(r.Context(), "event sync failed", "event_id", req.EventID, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	WriteJSONSuccess(w, http.StatusAccepted, map[string]int{"event_id": req.EventID})
}

// EventDeleted handles POST /webhooks/events/deleted.
func (c *WebhookController) EventDeleted(w http.ResponseWriter, r *http.Request) {
	var req EventChangedRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Delete(r.Context(), req.EventID); err != nil {
		c.Logger.ErrorContext(r.Context(), "event delete failed", "event_id", req.EventID, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	WriteJSONSuccess(w, http.StatusAccepted, map[string]int{"event_id": req.EventID})
}
