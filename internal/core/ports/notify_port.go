package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/velogo/bike-rental-service/internal/core/domain"
)

type OutboxRepository interface {
	PendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkSent(ctx context.Context, event_id uuid.UUID) error
}

// NotifierPort delivers a domain event to the notification broker. Delivery
// is best-effort: a failed publish leaves the event pending for retry.
type NotifierPort interface {
	PublishEvent(ctx context.Context, event *domain.OutboxEvent) error
}
