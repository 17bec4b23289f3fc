package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"portalsync/internal/domain"
)

// SyncController exposes manual reconciliation triggers, the operational
// fallback when change notifications are missed.
type SyncController struct {
	Logger  *slog.Logger
	Service domain.SyncService
}

func NewSyncController(logger *slog.Logger, svc domain.SyncService) *SyncController {
	return &SyncController{
		Logger:  logger,
		Service: svc,
	}
}

// SyncAll handles POST /sync: a full bulk reconciliation pass.
func (c *SyncController) SyncAll(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.SyncAll(r.Context()); err != nil {
		c.Logger.ErrorContext(r.Context(), "bulk sync failed", "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "synced"})
}

// SyncOne handles POST /sync/{portalID}: reconcile a single event.
func (c *SyncController) SyncOne(w http.ResponseWriter, r *http.Request) {
	portalID, err := strconv.Atoi(chi.URLParam(r, "portalID"))
	if err != nil || portalID <= 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "portalID must be a positive integer")
		return
	}
	if err := c.Service.SyncOne(r.Context(), portalID); err != nil {
		c.Logger.ErrorContext(r.Context(), "event sync failed", "event_id", portalID, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	WriteJSONSuccess(w, http.StatusOK, map[string]int{"event_id": portalID})
}
