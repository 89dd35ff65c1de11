package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"

	"github.com/lib/pq"
)

type RideRepository struct {
	db *sql.DB
}

func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{
		db,
	}
}

const insertOutboxQuery = `INSERT INTO notification_outbox (id, kind, ride_id, booking_id, payload)
	VALUES ($1, $2, $3, $4, $5)`

// createRideError maps constraint violations on the ride insert to domain
// errors. 23505 comes from the partial unique index on active rides: two
// concurrent starts for one booking race past the service check and the
// loser must get the same conflict as the sequential path.
func createRideError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return domain.ErrRideAlreadyActive
		case "23502":
			return fmt.Errorf("required field is missing")
		case "23503":
			return fmt.Errorf("booking does not exist")
		}
	}
	return err
}

func (r *RideRepository) CreateRide(ctx context.Context, ride *domain.Ride, event *domain.OutboxEvent) (*domain.Ride, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `INSERT INTO ride_journeys (booking_id, customer_id, bike_id, status, start_time)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id`

	err = tx.QueryRowContext(ctx, query, ride.BookingID, ride.CustomerID, ride.BikeID, ride.Status, ride.StartTime).Scan(&ride.ID)
	if err != nil {
		return nil, createRideError(err)
	}

	if event != nil {
		event.RideID = ride.ID
		if _, err = tx.ExecContext(ctx, insertOutboxQuery,
			event.ID, event.Kind, event.RideID, event.BookingID, event.Payload); err != nil {
			return nil, fmt.Errorf("insert outbox event: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return ride, nil
}

func (r *RideRepository) GetRideByID(ctx context.Context, rideID int64) (*domain.Ride, error) {
	query := `SELECT id, booking_id, customer_id, bike_id, status, start_time, end_time
              FROM ride_journeys WHERE id = $1`

	ride := &domain.Ride{}
	var endTime sql.NullTime
	err := r.db.QueryRowContext(ctx, query, rideID).Scan(
		&ride.ID,
		&ride.BookingID,
		&ride.CustomerID,
		&ride.BikeID,
		&ride.Status,
		&ride.StartTime,
		&endTime,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		ride.EndTime = &endTime.Time
	}
	return ride, nil
}

func (r *RideRepository) ActiveRideForBooking(ctx context.Context, bookingID int64) (*domain.Ride, error) {
	query := `SELECT id, booking_id, customer_id, bike_id, status, start_time, end_time
              FROM ride_journeys WHERE booking_id = $1 AND status = 'active'`

	ride := &domain.Ride{}
	var endTime sql.NullTime
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&ride.ID,
		&ride.BookingID,
		&ride.CustomerID,
		&ride.BikeID,
		&ride.Status,
		&ride.StartTime,
		&endTime,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		ride.EndTime = &endTime.Time
	}
	return ride, nil
}

// CompleteRide runs the whole completion as one transaction: archive row,
// ride flip, booking flip, bike availability, outbox events. Either all of
// it commits or none of it does, so an archived-but-not-marked state cannot
// exist.
func (r *RideRepository) CompleteRide(ctx context.Context, completion *domain.RideCompletion) (time.Time, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	defer tx.Rollback()

	ride := completion.Ride

	pathQuery := `INSERT INTO tracking_paths (ride_id, path_json) VALUES ($1, $2)`
	var pathJSON interface{}
	if completion.PathJSON != nil {
		pathJSON = completion.PathJSON
	}
	if _, err = tx.ExecContext(ctx, pathQuery, ride.ID, pathJSON); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return time.Time{}, domain.ErrRideAlreadyCompleted
		}
		return time.Time{}, fmt.Errorf("insert archived path: %w", err)
	}

	rideQuery := `UPDATE ride_journeys SET status = 'completed', end_time = $1
		WHERE id = $2 AND status = 'active'`
	result, err := tx.ExecContext(ctx, rideQuery, completion.EndTime, ride.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("update ride: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return time.Time{}, err
	}
	if affected == 0 {
		return time.Time{}, domain.ErrRideAlreadyCompleted
	}

	bookingQuery := `UPDATE bookings SET status = 'completed', updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	if _, err = tx.ExecContext(ctx, bookingQuery, ride.BookingID); err != nil {
		return time.Time{}, fmt.Errorf("update booking: %w", err)
	}

	bikeQuery := `UPDATE bikes SET available = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE bike_id = $1`
	if _, err = tx.ExecContext(ctx, bikeQuery, ride.BikeID); err != nil {
		return time.Time{}, fmt.Errorf("update bike: %w", err)
	}

	for _, event := range completion.Events {
		if _, err = tx.ExecContext(ctx, insertOutboxQuery,
			event.ID, event.Kind, event.RideID, event.BookingID, event.Payload); err != nil {
			return time.Time{}, fmt.Errorf("insert outbox event: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return time.Time{}, err
	}
	return completion.EndTime, nil
}

func (r *RideRepository) GetArchivedPath(ctx context.Context, rideID int64) (*domain.ArchivedPath, error) {
	query := `SELECT ride_id, path_json, created_at FROM tracking_paths WHERE ride_id = $1`

	path := &domain.ArchivedPath{}
	var pathJSON sql.NullString
	err := r.db.QueryRowContext(ctx, query, rideID).Scan(
		&path.RideID,
		&pathJSON,
		&path.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if pathJSON.Valid {
		path.PathJSON = []byte(pathJSON.String)
	}
	return path, nil
}
