package services

import (
	"context"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"
)

type BookingService struct {
	bookingRepo ports.BookingRepository
	logger      ports.LoggerPort
}

func NewBookingService(bookingRepo ports.BookingRepository, logger ports.LoggerPort) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

func (s *BookingService) GetBookingByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("Failed to get booking", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
		})
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) MyRentals(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.GetBookingsByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Error("Failed to list rentals", map[string]interface{}{
			"error":       err.Error(),
			"customer_id": customerID,
		})
		return nil, err
	}

	s.logger.Info("Retrieved rentals for customer", map[string]interface{}{
		"customer_id":    customerID,
		"bookings_count": len(bookings),
	})

	return bookings, nil
}
