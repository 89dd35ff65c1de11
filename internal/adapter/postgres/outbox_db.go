package postgres

import (
	"context"
	"database/sql"

	"github.com/velogo/bike-rental-service/internal/core/domain"

	"github.com/google/uuid"
)

type OutboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{
		db,
	}
}

func (r *OutboxRepository) PendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	query := `SELECT id, kind, ride_id, booking_id, payload, created_at
              FROM notification_outbox
              WHERE sent_at IS NULL
              ORDER BY created_at
              LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.OutboxEvent

	for rows.Next() {
		event := &domain.OutboxEvent{}
		err := rows.Scan(
			&event.ID,
			&event.Kind,
			&event.RideID,
			&event.BookingID,
			&event.Payload,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, eventID uuid.UUID) error {
	query := `UPDATE notification_outbox SET sent_at = CURRENT_TIMESTAMP WHERE id = $1 AND sent_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, eventID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
