package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a portal event or event mapping does not exist.
var ErrNotFound = errors.New("not found")

// EventDetails is an event as published by the application portal. The portal
// is the system of record; this service never writes events back to it.
type EventDetails struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// EventMapping ties a portal event to the Discord scheduled event that
// mirrors it. At most one row exists per portal ID; the mapping is the sole
// source of truth for whether a scheduled event already exists.
type EventMapping struct {
	PortalID       int    `json:"portal_id"`
	DiscordEventID string `json:"discord_event_id"`
}

// PortalClient reads the event schedule from the application portal.
type PortalClient interface {
	ListEvents(ctx context.Context) ([]EventDetails, error)
	// FindEvent returns the event with the given portal ID, or ErrNotFound.
	FindEvent(ctx context.Context, id int) (*EventDetails, error)
}

// EventMappingRepository persists portal-to-Discord event associations.
type EventMappingRepository interface {
	// Find returns the Discord scheduled event ID mapped to portalID, or
	// ErrNotFound.
	Find(ctx context.Context, portalID int) (string, error)
	// Upsert inserts the mapping, replacing the Discord event ID if a row for
	// portalID already exists. Replacement happens when a failed edit forces
	// the scheduled event to be recreated under the same portal ID.
	Upsert(ctx context.Context, portalID int, discordEventID string) error
	List(ctx context.Context) ([]EventMapping, error)
	Delete(ctx context.Context, portalID int) error
}

// UpstreamError reports a non-success response from the application portal.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("portal returned status %d: %s", e.StatusCode, e.Body)
}
