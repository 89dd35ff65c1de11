package ports

import (
	"context"

	"github.com/velogo/bike-rental-service/internal/core/domain"
)

type BikeRepository interface {
	GetBikeByID(ctx context.Context, bike_id int64) (*domain.Bike, error)
	GetBikesByOwnerID(ctx context.Context, owner_id string) ([]*domain.Bike, error)
}

type BikeService interface {
	GetBikeByID(ctx context.Context, bike_id int64) (*domain.Bike, error)
	GetBikesByOwnerID(ctx context.Context, owner_id string) ([]*domain.Bike, error)
}
