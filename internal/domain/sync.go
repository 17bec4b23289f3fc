package domain

import "context"

// SyncService keeps the Discord scheduled-events calendar converged with the
// portal's event list.
type SyncService interface {
	// SyncAll reconciles every portal event, then deletes scheduled events
	// whose mapping no longer matches a portal event.
	SyncAll(ctx context.Context) error
	// SyncOne reconciles a single event by portal ID, consulting the portal
	// for its current state.
	SyncOne(ctx context.Context, portalID int) error
	// Delete removes the scheduled event and mapping for portalID, if any.
	Delete(ctx context.Context, portalID int) error
}

// Notifier arms one reminder per upcoming event and fires an announcement
// shortly before each event starts.
type Notifier interface {
	// Refresh re-arms reminders for every event the portal currently lists.
	Refresh(ctx context.Context) error
	Upsert(details EventDetails)
	Remove(id int)
}
