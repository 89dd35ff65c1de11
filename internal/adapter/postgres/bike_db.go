package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/velogo/bike-rental-service/internal/core/domain"
)

type BikeRepository struct {
	db *sql.DB
}

func NewBikeRepository(db *sql.DB) *BikeRepository {
	return &BikeRepository{
		db,
	}
}

func (r *BikeRepository) GetBikeByID(ctx context.Context, bikeID int64) (*domain.Bike, error) {
	query := `SELECT bike_id, owner_id, bike_name, type, model, price_per_hour, available, created_at, updated_at
              FROM bikes WHERE bike_id = $1`

	bike := &domain.Bike{}
	err := r.db.QueryRowContext(ctx, query, bikeID).Scan(
		&bike.BikeID,
		&bike.OwnerID,
		&bike.BikeName,
		&bike.Type,
		&bike.Model,
		&bike.PricePerHour,
		&bike.Available,
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return bike, nil
}

func (r *BikeRepository) GetBikesByOwnerID(ctx context.Context, ownerID string) ([]*domain.Bike, error) {
	query := `SELECT bike_id, owner_id, bike_name, type, model, price_per_hour, available, created_at, updated_at
              FROM bikes WHERE owner_id = $1`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bikes []*domain.Bike

	for rows.Next() {
		bike := &domain.Bike{}
		err := rows.Scan(
			&bike.BikeID,
			&bike.OwnerID,
			&bike.BikeName,
			&bike.Type,
			&bike.Model,
			&bike.PricePerHour,
			&bike.Available,
			&bike.CreatedAt,
			&bike.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bikes = append(bikes, bike)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bikes, nil
}
