package models

import "gorm.io/gorm"

type Guest struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	Email    string `json:"email" gorm:"not null;uniqueIndex"`
	Password string `json:"-" gorm:"not null"`

	// Relationships. A guest owns their reservations and reviews: deleting a
	// guest removes both, as an explicit step in the delete handler rather
	// than a cascade hidden in the schema.
	Reservations []Reservation `json:"reservations,omitempty" gorm:"foreignKey:GuestID"`
	Reviews      []Review      `json:"reviews,omitempty" gorm:"foreignKey:GuestID"`
}
