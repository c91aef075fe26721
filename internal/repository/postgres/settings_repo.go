package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

const settingsColumns = `group_id, next_meeting_date, notes, created_at, updated_at`

// GetByGroup returns the settings row of a group
func (r *SettingsRepository) GetByGroup(ctx context.Context, groupID int32) (*domain.Settings, error) {
	settings, err := scanSettings(r.pool.QueryRow(ctx, `SELECT `+settingsColumns+` FROM group_settings WHERE group_id = $1`, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return settings, nil
}

// UpsertTx creates or replaces the settings row of a group
func (r *SettingsRepository) UpsertTx(ctx context.Context, tx interface{}, settings *domain.Settings) (*domain.Settings, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return scanSettings(pgxTx.QueryRow(ctx, `
		INSERT INTO group_settings (group_id, next_meeting_date, notes)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id) DO UPDATE
		SET next_meeting_date = EXCLUDED.next_meeting_date, notes = EXCLUDED.notes, updated_at = NOW()
		RETURNING `+settingsColumns,
		settings.GroupID, pgDate(settings.NextMeetingDate), settings.Notes))
}

func scanSettings(row pgx.Row) (*domain.Settings, error) {
	var s domain.Settings
	var next pgtype.Date
	if err := row.Scan(&s.GroupID, &next, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.NextMeetingDate = next.Time
	return &s, nil
}
