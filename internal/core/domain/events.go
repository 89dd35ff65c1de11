package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventRideStarted      EventKind = "ride.started"
	EventRideCompleted    EventKind = "ride.completed"
	EventBookingCompleted EventKind = "booking.completed"
)

// OutboxEvent is a domain event written in the same transaction as the state
// transition that produced it. A separate dispatcher delivers pending events
// to the broker, so notification failures never fail a transition.
type OutboxEvent struct {
	ID        uuid.UUID  `json:"id"`
	Kind      EventKind  `json:"kind"`
	RideID    int64      `json:"ride_id"`
	BookingID int64      `json:"booking_id"`
	Payload   []byte     `json:"payload"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

func NewOutboxEvent(kind EventKind, rideID, bookingID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		ID:        uuid.New(),
		Kind:      kind,
		RideID:    rideID,
		BookingID: bookingID,
		Payload:   payload,
	}
}
