package services

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/robertib24/HotelStaffGuests/models"
	"gorm.io/gorm"
)

// ReservationService owns the reservation lifecycle. It is the only place
// that creates, updates or deletes reservations, and the only writer of
// Room.Status besides the status synchronizer. Every operation runs its
// validate-check-write sequence under the room's lock and inside a single
// transaction.
type ReservationService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db, notifier: NewNotificationService(db)}
}

// ReservationView is the interchange shape of a reservation: identifiers plus
// the denormalized guest/room fields clients render, dates as YYYY-MM-DD.
type ReservationView struct {
	ID              uint        `json:"id"`
	ReservationCode string      `json:"reservationCode"`
	GuestID         uint        `json:"guestId"`
	GuestName       string      `json:"guestName"`
	RoomID          uint        `json:"roomId"`
	RoomNumber      string      `json:"roomNumber"`
	RoomType        string      `json:"roomType"`
	StartDate       models.Date `json:"startDate"`
	EndDate         models.Date `json:"endDate"`
	TotalPrice      float64     `json:"totalPrice"`
}

// NewReservationView flattens a reservation with loaded Guest and Room
// relations into its interchange shape.
func NewReservationView(r *models.Reservation) ReservationView {
	view := ReservationView{
		ID:              r.ID,
		ReservationCode: r.ReservationCode,
		GuestID:         r.GuestID,
		RoomID:          r.RoomID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		TotalPrice:      r.TotalPrice,
	}
	if r.Guest != nil {
		view.GuestName = r.Guest.Name
	}
	if r.Room != nil {
		view.RoomNumber = r.Room.Number
		view.RoomType = r.Room.Type
	}
	return view
}

// Create books a room for a guest over [start, end). It validates both
// references, the date ordering and the no-overlap invariant, computes the
// price, assigns a unique reservation code and persists the row. The
// ReservationCreated event fires only after the transaction commits.
func (s *ReservationService) Create(guestID, roomID uint, start, end models.Date) (*ReservationView, error) {
	unlock := roomLocks.Lock(roomID)
	defer unlock()

	var view ReservationView
	var guestEmail string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, guestID).Error; err != nil {
			return notFound(err, fmt.Sprintf("guest %d", guestID))
		}
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			return notFound(err, fmt.Sprintf("room %d", roomID))
		}

		if err := ValidateDateRange(start, end); err != nil {
			return err
		}
		if err := checkOverlap(tx, roomID, start, end, 0); err != nil {
			return err
		}

		code, err := generateReservationCode(tx, models.Today())
		if err != nil {
			return err
		}

		reservation := models.Reservation{
			ReservationCode: code,
			GuestID:         guest.ID,
			RoomID:          room.ID,
			StartDate:       start,
			EndDate:         end,
			TotalPrice:      TotalPrice(start, end, room.NightlyPrice),
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		reservation.Guest = &guest
		reservation.Room = &room
		view = NewReservationView(&reservation)
		guestEmail = guest.Email
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishReservationEvent(EventReservationCreated, view, guestEmail)
	return &view, nil
}

// CreateForGuest resolves the authenticated guest by email and books on
// their behalf.
func (s *ReservationService) CreateForGuest(guestEmail string, roomID uint, start, end models.Date) (*ReservationView, error) {
	var guest models.Guest
	if err := s.db.Where("email = ?", guestEmail).First(&guest).Error; err != nil {
		return nil, notFound(err, "guest "+guestEmail)
	}
	return s.Create(guest.ID, roomID, start, end)
}

// Update re-runs the whole create pipeline against the new interval, with the
// overlap check excluding the reservation itself. Guest and room references
// may change; the price is recomputed from the (possibly new) room's rate.
// The reservation code never changes.
func (s *ReservationService) Update(id, guestID, roomID uint, start, end models.Date) (*ReservationView, error) {
	unlock := roomLocks.Lock(roomID)
	defer unlock()

	var view ReservationView
	var guestEmail string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.First(&reservation, id).Error; err != nil {
			return notFound(err, fmt.Sprintf("reservation %d", id))
		}
		var guest models.Guest
		if err := tx.First(&guest, guestID).Error; err != nil {
			return notFound(err, fmt.Sprintf("guest %d", guestID))
		}
		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			return notFound(err, fmt.Sprintf("room %d", roomID))
		}

		if err := ValidateDateRange(start, end); err != nil {
			return err
		}
		if err := checkOverlap(tx, roomID, start, end, reservation.ID); err != nil {
			return err
		}

		reservation.GuestID = guest.ID
		reservation.RoomID = room.ID
		reservation.StartDate = start
		reservation.EndDate = end
		reservation.TotalPrice = TotalPrice(start, end, room.NightlyPrice)
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}

		reservation.Guest = &guest
		reservation.Room = &room
		view = NewReservationView(&reservation)
		guestEmail = guest.Email
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishReservationEvent(EventReservationUpdated, view, guestEmail)
	return &view, nil
}

// Cancel removes a reservation and flips its room to NeedsCleaning. Both
// writes share one transaction: a caller can never observe the room updated
// without the reservation gone, or vice versa.
func (s *ReservationService) Cancel(id uint) (*ReservationView, error) {
	return s.cancel(id, "")
}

// CancelForGuest is the self-service variant: the requester's email must
// match the reservation's guest or the operation fails with ErrForbidden and
// nothing is written.
func (s *ReservationService) CancelForGuest(id uint, requesterEmail string) (*ReservationView, error) {
	return s.cancel(id, requesterEmail)
}

func (s *ReservationService) cancel(id uint, requesterEmail string) (*ReservationView, error) {
	var view ReservationView
	var guestEmail string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.Preload("Guest").Preload("Room").First(&reservation, id).Error; err != nil {
			return notFound(err, fmt.Sprintf("reservation %d", id))
		}
		if requesterEmail != "" && (reservation.Guest == nil || reservation.Guest.Email != requesterEmail) {
			return ErrForbidden
		}
		// Preload yields nil when the room was deleted out from under the
		// reservation.
		if reservation.Room == nil {
			return fmt.Errorf("room %d: %w", reservation.RoomID, ErrNotFound)
		}

		reservation.Room.Status = models.RoomStatusNeedsCleaning
		if err := tx.Save(reservation.Room).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Reservation{}, reservation.ID).Error; err != nil {
			return err
		}

		view = NewReservationView(&reservation)
		if reservation.Guest != nil {
			guestEmail = reservation.Guest.Email
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishReservationEvent(EventReservationCancelled, view, guestEmail)
	return &view, nil
}

// List returns every reservation, oldest first.
func (s *ReservationService) List() ([]ReservationView, error) {
	var reservations []models.Reservation
	if err := s.db.Preload("Guest").Preload("Room").Order("id ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return viewsOf(reservations), nil
}

// ListForGuest returns the reservations belonging to the guest with the
// given email.
func (s *ReservationService) ListForGuest(email string) ([]ReservationView, error) {
	var reservations []models.Reservation
	err := s.db.
		Joins("JOIN guests ON guests.id = reservations.guest_id").
		Where("guests.email = ?", email).
		Preload("Guest").Preload("Room").
		Order("reservations.id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return viewsOf(reservations), nil
}

func viewsOf(reservations []models.Reservation) []ReservationView {
	views := make([]ReservationView, 0, len(reservations))
	for i := range reservations {
		views = append(views, NewReservationView(&reservations[i]))
	}
	return views
}

// checkOverlap counts reservations on the room whose [start_date, end_date)
// intersects the candidate interval: s1 < e2 AND s2 < e1. Touching
// boundaries do not intersect. excludeID skips the reservation being updated.
func checkOverlap(tx *gorm.DB, roomID uint, start, end models.Date, excludeID uint) error {
	q := tx.Model(&models.Reservation{}).
		Where("room_id = ? AND start_date < ? AND end_date > ?", roomID, end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var overlapping int64
	if err := q.Count(&overlapping).Error; err != nil {
		return err
	}
	if overlapping > 0 {
		return ErrReservationConflict
	}
	return nil
}

// generateReservationCode produces codes like RES-20240701-4821: booking day
// plus a four digit discriminator. Collisions are checked against all rows
// including soft-deleted ones, since codes are never reused; the unique index
// catches anything that slips through a race.
func generateReservationCode(tx *gorm.DB, day models.Date) (string, error) {
	for attempt := 0; attempt < 8; attempt++ {
		code := fmt.Sprintf("RES-%s-%04d", day.Format("20060102"), rand.Intn(10000))
		var count int64
		if err := tx.Unscoped().Model(&models.Reservation{}).
			Where("reservation_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique reservation code")
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
