package domain

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
)

// Booking is the commercial reservation a ride is performed against. It owns
// the authorization context: which customer, which bike, which owner.
type Booking struct {
	ID         int64         `json:"id"`
	CustomerID string        `json:"customer_id"`
	BikeID     int64         `json:"bike_id"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	TotalPrice float64       `json:"total_price"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
