package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/velogo/bike-rental-service/internal/core/domain"
)

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{
		db,
	}
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	query := `SELECT id, customer_id, bike_id, start_time, end_time, total_price, status, created_at, updated_at
              FROM bookings WHERE id = $1`

	booking := &domain.Booking{}
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.BikeID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.TotalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepository) GetBookingsByCustomerID(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	query := `SELECT id, customer_id, bike_id, start_time, end_time, total_price, status, created_at, updated_at
              FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking

	for rows.Next() {
		booking := &domain.Booking{}
		err := rows.Scan(
			&booking.ID,
			&booking.CustomerID,
			&booking.BikeID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.TotalPrice,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
