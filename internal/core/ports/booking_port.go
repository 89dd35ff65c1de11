package ports

import (
	"context"

	"github.com/velogo/bike-rental-service/internal/core/domain"
)

type BookingRepository interface {
	GetBookingByID(ctx context.Context, booking_id int64) (*domain.Booking, error)
	GetBookingsByCustomerID(ctx context.Context, customer_id string) ([]*domain.Booking, error)
}

type BookingService interface {
	GetBookingByID(ctx context.Context, booking_id int64) (*domain.Booking, error)
	MyRentals(ctx context.Context, customer_id string) ([]*domain.Booking, error)
}
