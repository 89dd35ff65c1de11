package services

import (
	"context"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"
)

type BikeService struct {
	bikeRepo ports.BikeRepository
	logger   ports.LoggerPort
}

func NewBikeService(bikeRepo ports.BikeRepository, logger ports.LoggerPort) *BikeService {
	return &BikeService{
		bikeRepo: bikeRepo,
		logger:   logger,
	}
}

func (s *BikeService) GetBikeByID(ctx context.Context, bikeID int64) (*domain.Bike, error) {
	bike, err := s.bikeRepo.GetBikeByID(ctx, bikeID)
	if err != nil {
		s.logger.Error("Failed to get bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, err
	}
	return bike, nil
}

func (s *BikeService) GetBikesByOwnerID(ctx context.Context, ownerID string) ([]*domain.Bike, error) {
	bikes, err := s.bikeRepo.GetBikesByOwnerID(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to get bikes", map[string]interface{}{
			"error":    err.Error(),
			"owner_id": ownerID,
		})
		return nil, err
	}

	s.logger.Info("Retrieved bikes for owner", map[string]interface{}{
		"owner_id":    ownerID,
		"bikes_count": len(bikes),
	})

	return bikes, nil
}
