package services

import (
	"time"

	"github.com/robertib24/HotelStaffGuests/models"
)

// ValidateDateRange rejects inverted and zero-length intervals. Equal dates
// are invalid: a one night stay requires end = start + 1 day.
func ValidateDateRange(start, end models.Date) error {
	if !start.Before(end.Time) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts the whole days in [start, end). Dates are UTC midnights, so
// the division is exact.
func Nights(start, end models.Date) int {
	return int(end.Sub(start.Time) / (24 * time.Hour))
}

// TotalPrice is nights × nightly rate, nothing more. Fees and seasonal
// pricing are deliberately not modelled.
func TotalPrice(start, end models.Date, nightlyRate float64) float64 {
	return float64(Nights(start, end)) * nightlyRate
}
