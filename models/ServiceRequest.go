package models

import (
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RequestKindRoomService  = "RoomService"
	RequestKindHousekeeping = "Housekeeping"
)

const (
	RequestStatusPending    = "Pending"
	RequestStatusInProgress = "InProgress"
	RequestStatusCompleted  = "Completed"
	RequestStatusCancelled  = "Cancelled"
)

var requestStatuses = []string{
	RequestStatusPending,
	RequestStatusInProgress,
	RequestStatusCompleted,
	RequestStatusCancelled,
}

func ValidRequestStatus(status string) bool {
	return slices.Contains(requestStatuses, status)
}

// ServiceRequest is a guest-facing ticket: room service orders and
// housekeeping requests share the same lifecycle, Kind tells them apart.
type ServiceRequest struct {
	gorm.Model
	GuestID      uint           `json:"guestID" gorm:"not null;index"`
	RoomID       uint           `json:"roomID" gorm:"not null;index"`
	Kind         string         `json:"kind" gorm:"type:varchar(30);not null;index"`
	Request      string         `json:"request" gorm:"type:text;not null"`
	Items        datatypes.JSON `json:"items"`
	Priority     string         `json:"priority" gorm:"type:varchar(20);default:'Normal'"`
	Status       string         `json:"status" gorm:"type:varchar(20);default:'Pending';index"`
	Notes        string         `json:"notes"`
	AssignedToID *uint          `json:"assignedToID"`
	CompletedAt  *time.Time     `json:"completedAt"`

	Guest      *Guest    `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Room       *Room     `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	AssignedTo *Employee `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID"`
}
