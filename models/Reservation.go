package models

import "gorm.io/gorm"

// Reservation holds a room for a guest over [StartDate, EndDate). EndDate is
// exclusive: a one night stay runs from D to D+1. TotalPrice is derived from
// the room's nightly price at booking time and persisted with the record.
//
// Reservations are only ever created through services.ReservationService,
// which enforces the date ordering and per-room no-overlap invariants.
type Reservation struct {
	gorm.Model
	ReservationCode string  `json:"reservationCode" gorm:"type:varchar(20);not null;uniqueIndex"`
	GuestID         uint    `json:"guestID" gorm:"not null;index"`
	RoomID          uint    `json:"roomID" gorm:"not null;index"`
	StartDate       Date    `json:"startDate" gorm:"not null;index"`
	EndDate         Date    `json:"endDate" gorm:"not null;index"`
	TotalPrice      float64 `json:"totalPrice" gorm:"not null"`

	// Relationships
	Guest *Guest `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Room  *Room  `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}
