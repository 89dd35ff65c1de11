package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"
)

// RideService owns the two lifecycle transitions of a ride and is the only
// component allowed to promote live tracking data into durable storage.
type RideService struct {
	rideRepo    ports.RideRepository
	bookingRepo ports.BookingRepository
	live        ports.LiveStorePort
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

func NewRideService(
	rideRepo ports.RideRepository,
	bookingRepo ports.BookingRepository,
	live ports.LiveStorePort,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *RideService {
	return &RideService{
		rideRepo:    rideRepo,
		bookingRepo: bookingRepo,
		live:        live,
		logger:      logger,
		metrics:     metrics,
	}
}

// StartRide creates an active ride for the booking, copying the customer and
// bike linkage from it. A booking may hold at most one active ride, so a
// second start is rejected with domain.ErrRideAlreadyActive.
func (s *RideService) StartRide(ctx context.Context, bookingID int64) (*domain.Ride, error) {
	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("Failed to load booking for ride start", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
		})
		return nil, err
	}

	if _, err := s.rideRepo.ActiveRideForBooking(ctx, bookingID); err == nil {
		return nil, domain.ErrRideAlreadyActive
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	ride := &domain.Ride{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		BikeID:     booking.BikeID,
		Status:     domain.RideActive,
		StartTime:  time.Now().UTC(),
	}

	payload, err := json.Marshal(ride)
	if err != nil {
		return nil, fmt.Errorf("marshal ride event: %w", err)
	}
	event := domain.NewOutboxEvent(domain.EventRideStarted, 0, booking.ID, payload)

	created, err := s.rideRepo.CreateRide(ctx, ride, event)
	if err != nil {
		s.logger.Error("Failed to create ride", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
		})
		return nil, err
	}

	s.metrics.RideStarted()
	s.logger.Info("Ride started", map[string]interface{}{
		"ride_id":     created.ID,
		"booking_id":  created.BookingID,
		"customer_id": created.CustomerID,
	})

	return created, nil
}

// CompleteRide archives the ride's live path, tears down the live key and
// flips the ride, booking and bike states. The archive write and the state
// flips commit as one transaction; the live key is deleted only afterwards,
// so a crash can leave an orphaned live key but never lose unarchived data.
// A second completion attempt is rejected with domain.ErrRideAlreadyCompleted.
func (s *RideService) CompleteRide(ctx context.Context, bookingID, rideID int64) (time.Time, error) {
	ride, err := s.rideRepo.GetRideByID(ctx, rideID)
	if err != nil {
		return time.Time{}, err
	}
	if ride.BookingID != bookingID {
		return time.Time{}, domain.ErrRideBookingMismatch
	}
	if ride.Status == domain.RideCompleted {
		return time.Time{}, domain.ErrRideAlreadyCompleted
	}

	// The raw buffer is archived verbatim. An empty buffer is fine: the ride
	// completes even when no fix was ever published.
	fixes, err := s.live.ReadAll(ctx, rideID)
	if err != nil {
		s.logger.Error("Failed to read live path, aborting completion", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": rideID,
		})
		return time.Time{}, fmt.Errorf("read live path: %w", err)
	}

	var pathJSON []byte
	if len(fixes) > 0 {
		if pathJSON, err = json.Marshal(fixes); err != nil {
			return time.Time{}, fmt.Errorf("marshal live path: %w", err)
		}
	}

	endTime := time.Now().UTC()
	ridePayload, err := json.Marshal(ride)
	if err != nil {
		return time.Time{}, fmt.Errorf("marshal ride event: %w", err)
	}

	completion := &domain.RideCompletion{
		Ride:     ride,
		EndTime:  endTime,
		PathJSON: pathJSON,
		Events: []*domain.OutboxEvent{
			domain.NewOutboxEvent(domain.EventRideCompleted, ride.ID, ride.BookingID, ridePayload),
			domain.NewOutboxEvent(domain.EventBookingCompleted, ride.ID, ride.BookingID, ridePayload),
		},
	}

	endedAt, err := s.rideRepo.CompleteRide(ctx, completion)
	if err != nil {
		s.logger.Error("Failed to complete ride", map[string]interface{}{
			"error":      err.Error(),
			"ride_id":    rideID,
			"booking_id": bookingID,
		})
		return time.Time{}, err
	}

	// Tear down the live stream only after the archive is durable. A failure
	// here leaves a stale key that readers must tolerate; it is logged, not
	// propagated.
	if err := s.live.Delete(ctx, rideID); err != nil {
		s.logger.Warn("Failed to clear live key after archive", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": rideID,
		})
	}

	s.metrics.RideCompleted()
	s.logger.Info("Ride completed", map[string]interface{}{
		"ride_id":    rideID,
		"booking_id": bookingID,
		"fix_count":  len(fixes),
	})

	return endedAt, nil
}

func (s *RideService) GetRide(ctx context.Context, rideID int64) (*domain.Ride, *domain.LiveFix, error) {
	ride, err := s.rideRepo.GetRideByID(ctx, rideID)
	if err != nil {
		return nil, nil, err
	}

	fix, err := s.live.Latest(ctx, rideID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Failed to read latest fix", map[string]interface{}{
				"error":   err.Error(),
				"ride_id": rideID,
			})
		}
		fix = nil
	}

	return ride, fix, nil
}

func (s *RideService) GetArchivedPath(ctx context.Context, rideID int64) (*domain.ArchivedPath, error) {
	return s.rideRepo.GetArchivedPath(ctx, rideID)
}
