package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portalsync/internal/domain"
	"portalsync/internal/metrics"
)

type reconcilerService struct {
	portal         domain.PortalClient
	calendar       domain.Calendar
	mappings       domain.EventMappingRepository
	notifier       domain.Notifier
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewReconcilerService returns a SyncService that drives the Discord
// scheduled-events calendar to match the portal's event list, keeping the
// mapping store consistent along the way.
func NewReconcilerService(portal domain.PortalClient,
	calendar domain.Calendar,
	mappings domain.EventMappingRepository,
	notifier domain.Notifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SyncService {
	return &reconcilerService{
		portal:         portal,
		calendar:       calendar,
		mappings:       mappings,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func scheduledEventFrom(details domain.EventDetails) domain.ScheduledEvent {
	return domain.ScheduledEvent{
		Name:        details.Name,
		Description: details.Description,
		Location:    details.URL,
		Start:       details.Start,
		End:         details.End,
	}
}

func (s *reconcilerService) SyncAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.portal.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("list portal events: %w", err)
	}
	mappings, err := s.mappings.List(ctx)
	if err != nil {
		return fmt.Errorf("list event mappings: %w", err)
	}

	unmatched := make(map[int]string, len(mappings))
	for _, m := range mappings {
		unmatched[m.PortalID] = m.DiscordEventID
	}

	for _, event := range events {
		discordID, mapped := unmatched[event.ID]
		if mapped {
			err = s.update(ctx, event, discordID)
		} else {
			err = s.create(ctx, event)
		}
		if err != nil {
			return err
		}
		delete(unmatched, event.ID)
	}

	// Mappings left unmatched belong to events removed from the portal since
	// the previous pass. Deletions always run after creates and updates.
	for portalID, discordID := range unmatched {
		s.remove(ctx, portalID, discordID)
	}
	return nil
}

func (s *reconcilerService) SyncOne(ctx context.Context, portalID int) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	details, err := s.portal.FindEvent(ctx, portalID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("find portal event %d: %w", portalID, err)
	}

	discordID, err := s.mappings.Find(ctx, portalID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("find event mapping %d: %w", portalID, err)
	}
	mapped := err == nil

	// portal | mapped | action
	//    y   |    n   | create
	//    y   |    y   | update
	//    n   |    y   | delete
	//    n   |    n   | do nothing
	switch {
	case details != nil && !mapped:
		return s.create(ctx, *details)
	case details != nil && mapped:
		return s.update(ctx, *details, discordID)
	case details == nil && mapped:
		s.remove(ctx, portalID, discordID)
	}
	return nil
}

func (s *reconcilerService) Delete(ctx context.Context, portalID int) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	discordID, err := s.mappings.Find(ctx, portalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find event mapping %d: %w", portalID, err)
	}

	s.remove(ctx, portalID, discordID)
	return nil
}

func (s *reconcilerService) create(ctx context.Context, details domain.EventDetails) error {
	s.notifier.Upsert(details)

	discordID, err := s.calendar.CreateScheduledEvent(ctx, scheduledEventFrom(details))
	if err != nil {
		metrics.ReconcileAction("create", metrics.OutcomeError)
		return fmt.Errorf("create scheduled event for portal event %d: %w", details.ID, err)
	}
	if err := s.mappings.Upsert(ctx, details.ID, discordID); err != nil {
		return fmt.Errorf("store event mapping %d: %w", details.ID, err)
	}

	metrics.ReconcileAction("create", metrics.OutcomeOK)
	s.logger.Info("created scheduled event", "portal_id", details.ID, "discord_event_id", discordID)
	return nil
}

func (s *reconcilerService) update(ctx context.Context, details domain.EventDetails, discordID string) error {
	s.notifier.Upsert(details)

	if err := s.calendar.EditScheduledEvent(ctx, discordID, scheduledEventFrom(details)); err != nil {
		// The scheduled event may have been deleted out from under us;
		// recreate it and point the mapping at the replacement.
		s.logger.Warn("edit failed, recreating scheduled event",
			"portal_id", details.ID, "discord_event_id", discordID, "err", err)

		created, err := s.calendar.CreateScheduledEvent(ctx, scheduledEventFrom(details))
		if err != nil {
			metrics.ReconcileAction("update", metrics.OutcomeError)
			return fmt.Errorf("recreate scheduled event for portal event %d: %w", details.ID, err)
		}
		if err := s.mappings.Upsert(ctx, details.ID, created); err != nil {
			return fmt.Errorf("store event mapping %d: %w", details.ID, err)
		}
		discordID = created
	}

	metrics.ReconcileAction("update", metrics.OutcomeOK)
	s.logger.Info("updated scheduled event", "portal_id", details.ID, "discord_event_id", discordID)
	return nil
}

// remove is best effort on the Discord side: the scheduled event may already
// be gone. The mapping row must not outlive its portal source, so it is
// deleted regardless.
func (s *reconcilerService) remove(ctx context.Context, portalID int, discordID string) {
	s.notifier.Remove(portalID)

	if err := s.calendar.DeleteScheduledEvent(ctx, discordID); err != nil {
		s.logger.Warn("delete scheduled event failed",
			"portal_id", portalID, "discord_event_id", discordID, "err", err)
	}

	if err := s.mappings.Delete(ctx, portalID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		metrics.ReconcileAction("delete", metrics.OutcomeError)
		s.logger.Error("delete event mapping failed", "portal_id", portalID, "err", err)
		return
	}

	metrics.ReconcileAction("delete", metrics.OutcomeOK)
	s.logger.Info("removed scheduled event", "portal_id", portalID, "discord_event_id", discordID)
}
