package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"gopkg.in/gomail.v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventReservationCreated   = "ReservationCreated"
	EventReservationUpdated   = "ReservationUpdated"
	EventReservationCancelled = "ReservationCancelled"
)

// reservationChannel is the Redis pub/sub channel dashboards subscribe to
// for live reservation updates.
const reservationChannel = "reservations"

var bgContext = context.Background()

// NotificationService decides that a notification fires and with what
// payload. Delivery — a persisted record, a confirmation mail, a pub/sub
// broadcast — is best effort: failures are logged and swallowed, never
// surfaced to the booking path.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// ReservationEvent is the payload published for every lifecycle transition.
type ReservationEvent struct {
	EventID     string          `json:"eventId"`
	Type        string          `json:"type"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Reservation ReservationView `json:"reservation"`
}

// PublishReservationEvent dispatches on a background goroutine so delivery
// can never block, fail or roll back a committed booking. Callers invoke it
// only after their transaction has committed.
func (ns *NotificationService) PublishReservationEvent(eventType string, view ReservationView, guestEmail string) {
	event := ReservationEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		OccurredAt:  time.Now(),
		Reservation: view,
	}
	go ns.dispatch(event, guestEmail)
}

func (ns *NotificationService) dispatch(event ReservationEvent, guestEmail string) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("notifications: marshal %s event: %v", event.Type, err)
		return
	}

	if ns.db != nil {
		record := models.Notification{
			EventID:         event.EventID,
			Type:            event.Type,
			ReservationCode: event.Reservation.ReservationCode,
			Recipient:       guestEmail,
			Payload:         datatypes.JSON(payload),
		}
		if err := ns.db.Create(&record).Error; err != nil {
			log.Printf("notifications: persist %s event: %v", event.Type, err)
		}
	}

	ns.sendEmail(event, guestEmail)
	ns.publishRealtime(payload)
}

func (ns *NotificationService) sendEmail(event ReservationEvent, to string) {
	host := os.Getenv("SMTP_HOST")
	if host == "" || to == "" {
		return
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}

	subject, body := buildEmail(event)

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	if err := d.DialAndSend(m); err != nil {
		log.Printf("notifications: send %s mail for %s: %v", event.Type, event.Reservation.ReservationCode, err)
	}
}

func buildEmail(event ReservationEvent) (subject, body string) {
	r := event.Reservation
	switch event.Type {
	case EventReservationCancelled:
		subject = "Reservation Cancelled - " + r.ReservationCode
		body = fmt.Sprintf(
			"Hello %s,\n\nYour reservation with code %s has been cancelled.\n\nIf you have any questions, please contact us.\n\nKind regards,\nThe Hotel Team",
			r.GuestName, r.ReservationCode)
	case EventReservationUpdated:
		subject = "Reservation Updated - " + r.ReservationCode
		fallthrough
	default:
		if subject == "" {
			subject = "Reservation Confirmation - " + r.ReservationCode
		}
		body = fmt.Sprintf(
			"Hello %s,\n\nYour reservation is confirmed!\n\nReservation details:\nCode: %s\nRoom: %s (%s)\nCheck-in: %s\nCheck-out: %s\nTotal price: %.2f\n\nWe look forward to your stay!\n\nKind regards,\nThe Hotel Team",
			r.GuestName, r.ReservationCode, r.RoomNumber, r.RoomType, r.StartDate, r.EndDate, r.TotalPrice)
	}
	return subject, body
}

func (ns *NotificationService) publishRealtime(payload []byte) {
	if storage.Redis == nil {
		return
	}
	if err := storage.Redis.Publish(bgContext, reservationChannel, payload).Err(); err != nil {
		log.Printf("notifications: publish to %s: %v", reservationChannel, err)
	}
}
