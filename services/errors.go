package services

import "errors"

// Booking failures surfaced to callers. Routes map these onto HTTP statuses
// with errors.Is; anything else is an internal failure.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidRange        = errors.New("end date must be after start date")
	ErrReservationConflict = errors.New("room is already reserved in this interval")
	ErrForbidden           = errors.New("you do not have permission to cancel this reservation")
)
