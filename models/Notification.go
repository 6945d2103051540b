package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is the persisted trail of a dispatched domain event. Delivery
// (mail, pub/sub) is best effort; the row records what was decided and with
// what payload.
type Notification struct {
	gorm.Model
	EventID         string         `json:"eventID" gorm:"type:varchar(36);uniqueIndex"`
	Type            string         `json:"type" gorm:"type:varchar(40);not null;index"`
	ReservationCode string         `json:"reservationCode" gorm:"type:varchar(20);index"`
	Recipient       string         `json:"recipient"`
	Payload         datatypes.JSON `json:"payload"`
}
