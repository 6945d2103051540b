package services

import (
	"context"
	"log"
	"time"

	"github.com/robertib24/HotelStaffGuests/models"
	"gorm.io/gorm"
)

// RoomStatusSynchronizer reconciles Room.Status with real occupancy: any
// room with a reservation covering today is promoted to Occupied. It only
// ever promotes. Nothing here demotes a room once its reservation ends —
// rooms leave Occupied through the cancel path or a manual status change
// (see DESIGN.md for why that asymmetry is kept).
type RoomStatusSynchronizer struct {
	db       *gorm.DB
	Interval time.Duration
}

func NewRoomStatusSynchronizer(db *gorm.DB) *RoomStatusSynchronizer {
	return &RoomStatusSynchronizer{db: db, Interval: time.Hour}
}

// Run reconciles immediately, then on every tick until ctx is cancelled.
func (s *RoomStatusSynchronizer) Run(ctx context.Context) {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	if _, err := s.Reconcile(); err != nil {
		log.Printf("room sync: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			updated, err := s.Reconcile()
			if err != nil {
				log.Printf("room sync: %v", err)
			} else if updated > 0 {
				log.Printf("room sync: marked %d room(s) occupied", updated)
			}
		}
	}
}

// Reconcile promotes every room with a reservation covering today
// (start <= today < end) to Occupied and reports how many rooms it wrote.
// Re-running with unchanged data writes nothing. Safe to run concurrently
// with bookings: promoting to Occupied is idempotent and commutative.
func (s *RoomStatusSynchronizer) Reconcile() (int, error) {
	today := models.Today()

	var active []models.Reservation
	if err := s.db.Preload("Room").
		Where("start_date <= ? AND end_date > ?", today, today).
		Find(&active).Error; err != nil {
		return 0, err
	}

	updated := 0
	seen := make(map[uint]bool)
	for i := range active {
		reservation := &active[i]
		if reservation.Room == nil || seen[reservation.RoomID] {
			continue
		}
		seen[reservation.RoomID] = true

		if reservation.Room.Status == models.RoomStatusOccupied {
			continue
		}
		if err := s.db.Model(&models.Room{}).
			Where("id = ?", reservation.RoomID).
			Update("status", models.RoomStatusOccupied).Error; err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
