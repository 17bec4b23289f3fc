package postgres

import (
	"context"
	"database/sql"
	"errors"

	"portalsync/internal/domain"
)

type eventMappingRepository struct {
	DB *sql.DB
}

func NewEventMappingRepository(db *sql.DB) domain.EventMappingRepository {
	return &eventMappingRepository{
		DB: db,
	}
}

func (r *eventMappingRepository) Find(ctx context.Context, portalID int) (string, error) {
	query := `
		SELECT discord_event_id
		FROM event_mappings
		WHERE portal_id = $1
	`
	var discordEventID string
	err := r.DB.QueryRowContext(ctx, query, portalID).Scan(&discordEventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return discordEventID, nil
}

func (r *eventMappingRepository) Upsert(ctx context.Context, portalID int, discordEventID string) error {
	query := `
		INSERT INTO event_mappings (portal_id, discord_event_id)
		VALUES ($1, $2)
		ON CONFLICT (portal_id) DO UPDATE SET discord_event_id = EXCLUDED.discord_event_id
	`
	_, err := r.DB.ExecContext(ctx, query, portalID, discordEventID)
	return err
}

func (r *eventMappingRepository) List(ctx context.Context) ([]domain.EventMapping, error) {
	query := `
		SELECT portal_id, discord_event_id
		FROM event_mappings
		ORDER BY portal_id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	mappings := make([]domain.EventMapping, 0)
	for rows.Next() {
		var m domain.EventMapping
		if err := rows.Scan(&m.PortalID, &m.DiscordEventID); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func (r *eventMappingRepository) Delete(ctx context.Context, portalID int) error {
	query := `DELETE FROM event_mappings WHERE portal_id = $1`
	result, err := r.DB.ExecContext(ctx, query, portalID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
