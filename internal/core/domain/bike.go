package domain

import (
	"time"
)

// swagger:model domain.Bike
type Bike struct {
	BikeID       int64     `json:"bike_id"`
	OwnerID      string    `json:"owner_id"`
	BikeName     string    `json:"bike_name"`
	Type         BikeType  `json:"type"`
	Model        string    `json:"model"`
	PricePerHour float64   `json:"price_per_hour"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BikeType string

const (
	City     BikeType = "city"
	MTB      BikeType = "mtb"
	Road     BikeType = "road"
	Electric BikeType = "electric"
)
