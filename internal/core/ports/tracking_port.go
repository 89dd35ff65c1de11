package ports

import (
	"context"
	"encoding/json"

	"github.com/velogo/bike-rental-service/internal/core/domain"
)

// LiveStorePort is the boundary to the live location store. Each ride id owns
// one key pair (latest fix + raw buffer) and one pub/sub channel; the only
// expected writer is the ride's customer.
type LiveStorePort interface {
	// PublishFix overwrites the latest fix, appends it to the raw buffer and
	// pushes it to subscribers.
	PublishFix(ctx context.Context, ride_id int64, fix *domain.LiveFix) error
	// Latest returns domain.ErrNotFound when the key is absent (ride never
	// tracked, or tracking ended).
	Latest(ctx context.Context, ride_id int64) (*domain.LiveFix, error)
	// ReadAll returns everything buffered for the ride, in publish order.
	ReadAll(ctx context.Context, ride_id int64) ([]json.RawMessage, error)
	// Delete removes the live keys and pushes a tombstone to subscribers.
	Delete(ctx context.Context, ride_id int64) error
	// Subscribe streams raw fix payloads (and the final tombstone) until the
	// returned cancel func is called.
	Subscribe(ctx context.Context, ride_id int64) (<-chan []byte, func(), error)
}

type TrackingService interface {
	PublishFix(ctx context.Context, ride_id int64, fix *domain.LiveFix) error
	Latest(ctx context.Context, ride_id int64) (*domain.LiveFix, error)
}
