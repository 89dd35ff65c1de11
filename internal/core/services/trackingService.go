package services

import (
	"context"
	"fmt"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

// TrackingService ingests live fixes from the publisher and reads the latest
// fix for viewers. The publish is fire-and-forget from the rider's point of
// view: no acknowledgment beyond the transport error.
type TrackingService struct {
	rideRepo ports.RideRepository
	live     ports.LiveStorePort
	logger   ports.LoggerPort
	validate *validator.Validate
	metrics  ports.MetricsPort
}

func NewTrackingService(
	rideRepo ports.RideRepository,
	live ports.LiveStorePort,
	logger ports.LoggerPort,
	validate *validator.Validate,
	metrics ports.MetricsPort,
) *TrackingService {
	return &TrackingService{
		rideRepo: rideRepo,
		live:     live,
		logger:   logger,
		validate: validate,
		metrics:  metrics,
	}
}

// PublishFix overwrites the ride's latest fix. Only the ride's own customer
// may publish (the live key is a single-writer cell) and only while the ride
// is still active.
func (s *TrackingService) PublishFix(ctx context.Context, rideID int64, fix *domain.LiveFix) error {
	if err := s.validate.Struct(fix); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidFix, err)
	}

	ride, err := s.rideRepo.GetRideByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.CustomerID != fix.CustomerID {
		s.logger.Warn("Fix rejected, publisher is not the ride customer", map[string]interface{}{
			"ride_id":       rideID,
			"customer_id":   fix.CustomerID,
			"ride_customer": ride.CustomerID,
		})
		return domain.ErrNotRideOwner
	}
	if ride.Status != domain.RideActive {
		return domain.ErrRideAlreadyCompleted
	}

	if err := s.live.PublishFix(ctx, rideID, fix); err != nil {
		s.logger.Error("Failed to publish fix to live store", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": rideID,
		})
		return err
	}

	s.metrics.FixPublished()
	return nil
}

func (s *TrackingService) Latest(ctx context.Context, rideID int64) (*domain.LiveFix, error) {
	return s.live.Latest(ctx, rideID)
}
