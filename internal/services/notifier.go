package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"portalsync/internal/domain"
	"portalsync/internal/metrics"
)

const (
	// notifyLead is how long before an event's start the reminder fires.
	notifyLead = time.Minute
	// notifyJitterMax spreads reminders out when many events share a start
	// time; the jitter moves the fire time earlier, never later.
	notifyJitterMax = 30 * time.Second

	announceTimeout = 30 * time.Second
)

// eventTimer is the subset of *time.Timer the notifier relies on, split out
// so tests can substitute a fake scheduler.
type eventTimer interface {
	Stop() bool
}

type notifierService struct {
	portal    domain.PortalClient
	mappings  domain.EventMappingRepository
	announcer domain.Announcer
	guildID   string
	logger    *slog.Logger

	mu     sync.Mutex
	timers map[int]eventTimer

	now    func() time.Time
	after  func(d time.Duration, f func()) eventTimer
	jitter func() time.Duration
}

// NewNotifierService returns a Notifier that keeps one pending reminder per
// upcoming portal event and posts an announcement to the configured channel
// shortly before each event starts.
func NewNotifierService(portal domain.PortalClient,
	mappings domain.EventMappingRepository,
	announcer domain.Announcer,
	guildID string,
	logger *slog.Logger,
) domain.Notifier {
	return &notifierService{
		portal:    portal,
		mappings:  mappings,
		announcer: announcer,
		guildID:   guildID,
		logger:    logger,
		timers:    make(map[int]eventTimer),
		now:       time.Now,
		after: func(d time.Duration, f func()) eventTimer {
			return time.AfterFunc(d, f)
		},
		jitter: randomJitter,
	}
}

func randomJitter() time.Duration {
	return rand.N(notifyJitterMax)
}

// Refresh re-arms a reminder for every event the portal currently lists.
// Timer state is not persisted; this recomputes everything from the portal
// after a restart and picks up start-time edits missed by the change channel.
func (n *notifierService) Refresh(ctx context.Context) error {
	events, err := n.portal.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("list portal events: %w", err)
	}

	n.logger.Info("refreshing event notifications", "count", len(events))
	for _, event := range events {
		n.Upsert(event)
	}
	return nil
}

func (n *notifierService) Upsert(details domain.EventDetails) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[details.ID]; ok {
		t.Stop()
		delete(n.timers, details.ID)
	}

	fireAt := details.Start.Add(-notifyLead - n.jitter())
	wait := fireAt.Sub(n.now())
	if wait <= 0 {
		// The lead window has already elapsed; never notify retroactively.
		return
	}

	n.timers[details.ID] = n.after(wait, func() {
		n.fire(details)
	})
	n.logger.Info("armed event notification", "id", details.ID, "fire_at", fireAt)
}

func (n *notifierService) Remove(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	n.logger.Info("removed event notification", "id", id)
}

func (n *notifierService) fire(details domain.EventDetails) {
	n.mu.Lock()
	delete(n.timers, details.ID)
	n.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
	defer cancel()

	content := fmt.Sprintf("@everyone Join us for **%s** now!\n%s", details.Name, details.URL)

	discordID, err := n.mappings.Find(ctx, details.ID)
	switch {
	case err == nil:
		content += fmt.Sprintf("\n\nhttps://discord.com/events/%s/%s", n.guildID, discordID)
	case !errors.Is(err, domain.ErrNotFound):
		n.logger.Error("look up event mapping", "id", details.ID, "err", err)
	}

	// Best effort: a failed send is logged, not retried.
	if err := n.announcer.Announce(ctx, content); err != nil {
		metrics.Notification(metrics.OutcomeError)
		n.logger.Error("send event announcement", "id", details.ID, "err", err)
		return
	}

	metrics.Notification(metrics.OutcomeOK)
	n.logger.Info("sent event announcement", "id", details.ID)
}
