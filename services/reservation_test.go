package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// An in-memory database exists per connection; keep the pool at one so
	// every query sees the same schema.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return storage.InitializeTestDB(db)
}

func seedGuest(t *testing.T, db *gorm.DB, name, email string) models.Guest {
	t.Helper()
	guest := models.Guest{Name: name, Email: email, Password: "x"}
	if err := db.Create(&guest).Error; err != nil {
		t.Fatalf("seed guest: %v", err)
	}
	return guest
}

func seedRoom(t *testing.T, db *gorm.DB, number string, price float64) models.Room {
	t.Helper()
	room := models.Room{Number: number, Type: "Double", NightlyPrice: price, Status: models.RoomStatusClean}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return room
}

func TestCreateReservationComputesPrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	guest := seedGuest(t, db, "Ion Popescu", "ion@example.com")
	room := seedRoom(t, db, "101", 250)

	start := models.NewDate(2026, time.July, 10)
	end := models.NewDate(2026, time.July, 13)

	view, err := svc.Create(guest.ID, room.ID, start, end)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.TotalPrice != 750 {
		t.Errorf("expected total 750 for 3 nights at 250, got %v", view.TotalPrice)
	}
	if view.GuestName != "Ion Popescu" || view.RoomNumber != "101" {
		t.Errorf("view not denormalized: %+v", view)
	}

	codePattern := regexp.MustCompile(`^RES-\d{8}-\d{4}$`)
	if !codePattern.MatchString(view.ReservationCode) {
		t.Errorf("bad reservation code %q", view.ReservationCode)
	}
}

func TestCreateReservationRejectsInvalidRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	guest := seedGuest(t, db, "Ana", "ana@example.com")
	room := seedRoom(t, db, "102", 100)

	day := models.NewDate(2026, time.July, 10)

	if _, err := svc.Create(guest.ID, room.ID, day, day); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("start == end: expected ErrInvalidRange, got %v", err)
	}
	if _, err := svc.Create(guest.ID, room.ID, day.AddDays(5), day); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("start > end: expected ErrInvalidRange, got %v", err)
	}

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected bookings must not persist, found %d rows", count)
	}
}

func TestCreateReservationUnknownReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	guest := seedGuest(t, db, "Ana", "ana@example.com")
	room := seedRoom(t, db, "103", 100)

	start := models.NewDate(2026, time.July, 10)
	end := start.AddDays(2)

	if _, err := svc.Create(9999, room.ID, start, end); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown guest: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Create(guest.ID, 9999, start, end); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown room: expected ErrNotFound, got %v", err)
	}
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	guest := seedGuest(t, db, "Ana", "ana@example.com")
	room := seedRoom(t, db, "104", 100)

	base := models.NewDate(2026, time.July, 10)
	if _, err := svc.Create(guest.ID, room.ID, base, base.AddDays(5)); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	overlapping := []struct {
		name       string
		start, end models.Date
	}{
		{"inside", base.AddDays(1), base.AddDays(3)},
		{"straddles start", base.AddDays(-2), base.AddDays(2)},
		{"straddles end", base.AddDays(3), base.AddDays(8)},
		{"covers", base.AddDays(-1), base.AddDays(6)},
		{"identical", base, base.AddDays(5)},
	}
	for _, tc := range overlapping {
		if _, err := svc.Create(guest.ID, room.ID, tc.start, tc.end); !errors.Is(err, ErrReservationConflict) {
			t.Errorf("%s: expected ErrReservationConflict, got %v", tc.name, err)
		}
	}

	// Touching intervals share a boundary day but no night.
	if _, err := svc.Create(guest.ID, room.ID, base.AddDays(5), base.AddDays(7)); err != nil {
		t.Errorf("back-to-back after: %v", err)
	}
	if _, err := svc.Create(guest.ID, room.ID, base.AddDays(-3), base); err != nil {
		t.Errorf("back-to-back before: %v", err)
	}

	// A different room is free to overlap.
	other := seedRoom(t, db, "105", 100)
	if _, err := svc.Create(guest.ID, other.ID, base, base.AddDays(5)); err != nil {
		t.Errorf("other room: %v", err)
	}
}

func TestUpdateReservationExcludesItself(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	guest := seedGuest(t, db, "Ana", "ana@example.com")
	room := seedRoom(t, db, "106", 250)

	base := models.NewDate(2026, time.July, 10)
	view, err := svc.Create(guest.ID, room.ID, base, base.AddDays(3))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Shifting within its own interval must not conflict with itself.
	updated, err := svc.Update(view.ID, guest.ID, room.ID, base.AddDays(1), base.AddDays(5))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TotalPrice != 1000 {
		t.Errorf("expected repriced total 1000 for 4 nights, got %v", updated.TotalPrice)
	}
	if updated.ReservationCode != view.ReservationCode {
		t.Errorf("code changed on update: %q -> %q", view.ReservationCode, updated.ReservationCode)
	}
}

func TestUpdateReservationConflictsWithOthers(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	guest := seedGuest(t, db, "Ana", "ana@example.com")
	room := seedRoom(t, db, "107", 100)

	base := models.NewDate(2026, time.July, 10)
	if _, err := svc.Create(guest.ID, room.ID, base, base.AddDays(3)); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	second, err := svc.Create(guest.ID, room.ID, base.AddDays(3), base.AddDays(6))
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}

	if _, err := svc.Update(second.ID, guest.ID, room.ID, base.AddDays(2), base.AddDays(6)); !errors.Is(err, ErrReservationConflict) {
		t.Errorf("expected ErrReservationConflict, got %v", err)
	}

	// The failed update must leave the row untouched.
	var row models.Reservation
	if err := db.First(&row, second.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.StartDate.String() != base.AddDays(3).String() {
		t.Errorf("start changed after rejected update: %s", row.StartDate)
	}
}

func TestCancelReservationFlipsRoomStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	guest := seedGuest(t, db, "Ana", "ana@example.com")
	room := seedRoom(t, db, "108", 100)

	base := models.NewDate(2026, time.July, 10)
	view, err := svc.Create(guest.ID, room.ID, base, base.AddDays(2))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Cancel(view.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var reloaded models.Room
	if err := db.First(&reloaded, room.ID).Error; err != nil {
		t.Fatalf("reload room: %v", err)
	}
	if reloaded.Status != models.RoomStatusNeedsCleaning {
		t.Errorf("expected NeedsCleaning after cancel, got %q", reloaded.Status)
	}

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	if count != 0 {
		t.Errorf("reservation still visible after cancel")
	}

	// The freed interval is bookable again.
	if _, err := svc.Create(guest.ID, room.ID, base, base.AddDays(2)); err != nil {
		t.Errorf("rebooking cancelled interval: %v", err)
	}
}

func TestCancelReservationWithDeletedRoom(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	guest := seedGuest(t, db, "Ana", "ana@example.com")
	room := seedRoom(t, db, "112", 100)

	base := models.NewDate(2026, time.July, 10)
	view, err := svc.Create(guest.ID, room.ID, base, base.AddDays(2))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Pull the room out from under the reservation.
	if err := db.Delete(&models.Room{}, room.ID).Error; err != nil {
		t.Fatalf("delete room: %v", err)
	}

	if _, err := svc.Cancel(view.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing room, got %v", err)
	}

	// The failed cancel rolls back: the reservation survives.
	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	if count != 1 {
		t.Errorf("reservation deleted despite failed cancel")
	}
}

func TestCancelForGuestEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	owner := seedGuest(t, db, "Ana", "ana@example.com")
	seedGuest(t, db, "Dan", "dan@example.com")
	room := seedRoom(t, db, "109", 100)

	base := models.NewDate(2026, time.July, 10)
	view, err := svc.Create(owner.ID, room.ID, base, base.AddDays(2))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.CancelForGuest(view.ID, "dan@example.com"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Denied cancellation writes nothing.
	var reloaded models.Room
	db.First(&reloaded, room.ID)
	if reloaded.Status != models.RoomStatusClean {
		t.Errorf("room status changed on forbidden cancel: %q", reloaded.Status)
	}
	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	if count != 1 {
		t.Errorf("reservation deleted on forbidden cancel")
	}

	if _, err := svc.CancelForGuest(view.ID, "ana@example.com"); err != nil {
		t.Errorf("owner cancel: %v", err)
	}
}

func TestReservationCodesAreUnique(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	guest := seedGuest(t, db, "Ana", "ana@example.com")

	base := models.NewDate(2026, time.July, 10)
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		room := seedRoom(t, db, "2"+string(rune('0'+i)), 100)
		view, err := svc.Create(guest.ID, room.ID, base, base.AddDays(1))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[view.ReservationCode] {
			t.Fatalf("duplicate code %q", view.ReservationCode)
		}
		seen[view.ReservationCode] = true
	}
}

func TestListForGuestFiltersByEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewReservationService(db)
	ana := seedGuest(t, db, "Ana", "ana@example.com")
	dan := seedGuest(t, db, "Dan", "dan@example.com")
	room := seedRoom(t, db, "110", 100)
	other := seedRoom(t, db, "111", 100)

	base := models.NewDate(2026, time.July, 10)
	if _, err := svc.Create(ana.ID, room.ID, base, base.AddDays(2)); err != nil {
		t.Fatalf("ana booking: %v", err)
	}
	if _, err := svc.Create(dan.ID, other.ID, base, base.AddDays(2)); err != nil {
		t.Fatalf("dan booking: %v", err)
	}

	views, err := svc.ListForGuest("ana@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].GuestName != "Ana" {
		t.Errorf("expected exactly Ana's booking, got %+v", views)
	}
}

func TestNightsAndTotalPrice(t *testing.T) {
	start := models.NewDate(2026, time.July, 10)

	if n := Nights(start, start.AddDays(1)); n != 1 {
		t.Errorf("one night: got %d", n)
	}
	if n := Nights(start, start.AddDays(7)); n != 7 {
		t.Errorf("seven nights: got %d", n)
	}
	if total := TotalPrice(start, start.AddDays(3), 250); total != 750 {
		t.Errorf("expected 750, got %v", total)
	}
}
