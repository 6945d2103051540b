package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	GuestID uint   `json:"guestID" gorm:"not null;index"`
	RoomID  uint   `json:"roomID" gorm:"not null;index"`
	Title   string `json:"title"`
	Body    string `json:"body" gorm:"type:text"`
	Stars   int    `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`

	Guest *Guest `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Room  *Room  `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}
