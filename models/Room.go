package models

import (
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Room statuses. Stored as text but treated as a closed set: the lifecycle
// service writes NeedsCleaning on cancel, the status synchronizer writes
// Occupied, everything else is a manual operator transition.
const (
	RoomStatusClean         = "Clean"
	RoomStatusOccupied      = "Occupied"
	RoomStatusNeedsCleaning = "NeedsCleaning"
	RoomStatusMaintenance   = "Maintenance"
)

var roomStatuses = []string{
	RoomStatusClean,
	RoomStatusOccupied,
	RoomStatusNeedsCleaning,
	RoomStatusMaintenance,
}

func ValidRoomStatus(status string) bool {
	return slices.Contains(roomStatuses, status)
}

type Room struct {
	gorm.Model
	Number       string  `json:"number" gorm:"not null;uniqueIndex"`
	Type         string  `json:"type" gorm:"not null"`
	NightlyPrice float64 `json:"nightlyPrice" gorm:"not null"`
	Status       string  `json:"status" gorm:"not null;default:'Clean';index"`
	ManagedByID  *uint   `json:"managedByID"`

	// Relationships
	ManagedBy    *Employee     `json:"managedBy,omitempty" gorm:"foreignKey:ManagedByID"`
	Reservations []Reservation `json:"reservations,omitempty" gorm:"foreignKey:RoomID"`
}
