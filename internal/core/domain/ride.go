package domain

import (
	"time"
)

type RideStatus string

const (
	RideActive    RideStatus = "active"
	RideCompleted RideStatus = "completed"
)

// Ride is one rental trip performed against a booking. Its lifecycle is
// one-directional: active -> completed. Rides are never deleted.
type Ride struct {
	ID         int64      `json:"id"`
	BookingID  int64      `json:"booking_id"`
	CustomerID string     `json:"customer_id"`
	BikeID     int64      `json:"bike_id"`
	Status     RideStatus `json:"status"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
}

// ArchivedPath is the durable one-time snapshot of every live fix observed
// for a ride, written at completion. PathJSON is stored verbatim and may be
// null when nothing was ever published.
type ArchivedPath struct {
	RideID    int64     `json:"ride_id"`
	PathJSON  []byte    `json:"path_json"`
	CreatedAt time.Time `json:"created_at"`
}

// RideCompletion carries everything the completion transaction persists as
// a single unit: the ride/booking/bike state flips, the archived path, and
// the outbox events for the notification dispatcher.
type RideCompletion struct {
	Ride     *Ride
	EndTime  time.Time
	PathJSON []byte
	Events   []*OutboxEvent
}
