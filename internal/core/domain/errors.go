package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrRideAlreadyActive    = errors.New("booking already has an active ride")
	ErrRideAlreadyCompleted = errors.New("ride already completed")
	ErrRideBookingMismatch  = errors.New("ride does not belong to booking")
	ErrNotRideOwner         = errors.New("fix publisher is not the ride customer")
	ErrInvalidFix           = errors.New("invalid fix payload")
)
