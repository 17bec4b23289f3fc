package domain

import (
	"context"
	"fmt"
	"time"
)

// ScheduledEvent carries the fields needed to create or edit a native
// scheduled event on the chat platform. Location holds the portal join URL
// since all mirrored events are external.
type ScheduledEvent struct {
	Name        string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Calendar manages native scheduled events on the chat platform.
type Calendar interface {
	// CreateScheduledEvent returns the platform-assigned event ID.
	CreateScheduledEvent(ctx context.Context, ev ScheduledEvent) (string, error)
	EditScheduledEvent(ctx context.Context, id string, ev ScheduledEvent) error
	DeleteScheduledEvent(ctx context.Context, id string) error
}

// Announcer posts a message to the configured announcements channel.
type Announcer interface {
	Announce(ctx context.Context, content string) error
}

// CalendarError reports a failed chat-platform API call.
type CalendarError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Operation, e.StatusCode, e.Body)
}
