package http

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"portalsync/internal/domain"
)

// EventController serves read-only schedule lookups straight from the portal.
type EventController struct {
	Logger *slog.Logger
	Portal domain.PortalClient

	// now is swapped out in tests.
	now func() time.Time
}

func NewEventController(logger *slog.Logger, portal domain.PortalClient) *EventController {
	return &EventController{
		Logger: logger,
		Portal: portal,
		now:    time.Now,
	}
}

// ListEvents handles GET /events: the full schedule, soonest first.
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Portal.ListEvents(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "list events failed", "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	WriteJSONSuccess(w, http.StatusOK, events)
}

// NextEvent handles GET /events/next: the next event yet to start.
func (c *EventController) NextEvent(w http.ResponseWriter, r *http.Request) {
	events, err := c.Portal.ListEvents(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "list events failed", "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	now := c.now()
	var next *domain.EventDetails
	for i := range events {
		if !events[i].Start.After(now) {
			continue
		}
		if next == nil || events[i].Start.Before(next.Start) {
			next = &events[i]
		}
	}
	if next == nil {
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "no upcoming events")
		return
	}
	WriteJSONSuccess(w, http.StatusOK, next)
}
