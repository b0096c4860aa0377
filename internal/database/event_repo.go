package database

import (
	"context"
	"fmt"
	"time"

	"github.com/diegoclair/jadwal-bot/internal/domain"
	"github.com/diegoclair/jadwal-bot/internal/domain/contract"
	"github.com/diegoclair/jadwal-bot/internal/domain/entity"
)

type eventRepo struct {
	db dbConn
}

func newEventRepo(db dbConn) contract.EventRepo {
	return &eventRepo{db: db}
}

const selectEvents = `
	SELECT id, tenant_id, event_date, event_time, person, activity, stage, recorded_at
	FROM events
`

func (r *eventRepo) List(ctx context.Context, storeRef string) ([]*entity.Event, error) {
	query := selectEvents + `
		WHERE store_ref = ?
		ORDER BY id
	`

	return r.queryEvents(ctx, query, storeRef)
}

// ListByDate is served by idx_events_store_date.
func (r *eventRepo) ListByDate(ctx context.Context, storeRef, date string) ([]*entity.Event, error) {
	query := selectEvents + `
		WHERE store_ref = ? AND event_date = ?
		ORDER BY id
	`

	return r.queryEvents(ctx, query, storeRef, date)
}

func (r *eventRepo) queryEvents(ctx context.Context, query string, args ...any) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	events := []*entity.Event{}
	for rows.Next() {
		event := &entity.Event{}
		err := rows.Scan(
			&event.Position,
			&event.TenantID,
			&event.Date,
			&event.Time,
			&event.Person,
			&event.Activity,
			&event.Stage,
			&event.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w: %w", domain.ErrStoreUnavailable, err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w: %w", domain.ErrStoreUnavailable, err)
	}

	return events, nil
}

func (r *eventRepo) Append(ctx context.Context, storeRef string, event *entity.Event) error {
	query := `
		INSERT INTO events (store_ref, tenant_id, event_date, event_time, person, activity, stage, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		storeRef,
		event.TenantID,
		event.Date,
		event.Time,
		event.Person,
		event.Activity,
		event.Stage,
		event.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w: %w", domain.ErrStoreUnavailable, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	event.Position = id
	return nil
}

// UpdateStage only ever moves a row forward. A row already at or past stage
// is left untouched and reported as success.
func (r *eventRepo) UpdateStage(ctx context.Context, storeRef string, position int64, stage entity.Stage) error {
	query := `
		UPDATE events SET
			stage = ?,
			updated_at = ?
		WHERE store_ref = ? AND id = ? AND stage < ?
	`

	result, err := r.db.ExecContext(ctx, query, stage, time.Now(), storeRef, position, stage)
	if err != nil {
		return fmt.Errorf("failed to update event stage: %w: %w", domain.ErrStoreUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if affected > 0 {
		return nil
	}

	var count int
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM events WHERE store_ref = ? AND id = ?`, storeRef, position).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check event: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if count == 0 {
		return fmt.Errorf("event %d in %s: %w", position, storeRef, domain.ErrNotFound)
	}

	return nil
}
