package ports

import (
	"context"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"
)

type RideRepository interface {
	// CreateRide inserts the ride and its RideStarted outbox event in one
	// transaction.
	CreateRide(ctx context.Context, ride *domain.Ride, event *domain.OutboxEvent) (*domain.Ride, error)
	GetRideByID(ctx context.Context, ride_id int64) (*domain.Ride, error)
	// ActiveRideForBooking returns domain.ErrNotFound when the booking has
	// no active ride.
	ActiveRideForBooking(ctx context.Context, booking_id int64) (*domain.Ride, error)
	// CompleteRide persists the archived path, marks the ride and booking
	// completed, flips the bike back to available and inserts the outbox
	// events, all in a single transaction.
	CompleteRide(ctx context.Context, completion *domain.RideCompletion) (time.Time, error)
	GetArchivedPath(ctx context.Context, ride_id int64) (*domain.ArchivedPath, error)
}

type RideService interface {
	StartRide(ctx context.Context, booking_id int64) (*domain.Ride, error)
	CompleteRide(ctx context.Context, booking_id, ride_id int64) (time.Time, error)
	GetRide(ctx context.Context, ride_id int64) (*domain.Ride, *domain.LiveFix, error)
	GetArchivedPath(ctx context.Context, ride_id int64) (*domain.ArchivedPath, error)
}
