package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildBookingTestApp wires the reservation routes exactly as main does,
// against an in-memory database.
func buildBookingTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	storage.InitializeTestDB(db)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	reservations := app.Party("/api/reservations", accessTokenVerifierMiddleware, utils.EmployeeOnlyMiddleware)
	{
		reservations.Get("/", GetReservations)
		reservations.Post("/", CreateReservation)
		reservations.Put("/{id:uint}", UpdateReservation)
		reservations.Delete("/{id:uint}", CancelReservation)
	}

	rooms := app.Party("/api/rooms", accessTokenVerifierMiddleware, utils.EmployeeOnlyMiddleware)
	{
		rooms.Delete("/{id:uint}", utils.ManagerOnlyMiddleware, DeleteRoom)
	}

	client := app.Party("/api/client", accessTokenVerifierMiddleware, utils.GuestOnlyMiddleware)
	{
		client.Get("/reservations", GetMyReservations)
		client.Post("/reservations", CreateClientReservation)
		client.Delete("/reservations/{id:uint}", CancelClientReservation)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func signToken(t *testing.T, claims utils.AccessToken) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, err := signer.Sign(claims)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

func staffToken(t *testing.T) string {
	return signToken(t, utils.AccessToken{ID: 1, Kind: utils.PrincipalEmployee, Role: models.EmployeeRoleReceptionist, Email: "staff@example.com"})
}

func managerToken(t *testing.T) string {
	return signToken(t, utils.AccessToken{ID: 3, Kind: utils.PrincipalEmployee, Role: models.EmployeeRoleManager, Email: "manager@example.com"})
}

func guestToken(t *testing.T, email string) string {
	return signToken(t, utils.AccessToken{ID: 2, Kind: utils.PrincipalGuest, Email: email})
}

func doJSON(app *iris.Application, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func seedBookingFixtures(t *testing.T) (models.Guest, models.Room) {
	t.Helper()
	guest := models.Guest{Name: "Ion Popescu", Email: "ion@example.com", Password: "x"}
	if err := storage.DB.Create(&guest).Error; err != nil {
		t.Fatalf("seed guest: %v", err)
	}
	room := models.Room{Number: "101", Type: "Double", NightlyPrice: 250, Status: models.RoomStatusClean}
	if err := storage.DB.Create(&room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return guest, room
}

func TestReservationRoutesRequireStaffToken(t *testing.T) {
	app := buildBookingTestApp(t)

	resp := doJSON(app, http.MethodGet, "/api/reservations", "", "")
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodGet, "/api/reservations", guestToken(t, "ion@example.com"), "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for guest token on staff route, got %d", resp.Code)
	}
}

func TestCreateReservationRoute(t *testing.T) {
	app := buildBookingTestApp(t)
	_, _ = seedBookingFixtures(t)

	body := `{"guestId":1,"roomId":1,"startDate":"2026-07-10","endDate":"2026-07-13"}`
	resp := doJSON(app, http.MethodPost, "/api/reservations", staffToken(t), body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var view struct {
		ReservationCode string  `json:"reservationCode"`
		StartDate       string  `json:"startDate"`
		EndDate         string  `json:"endDate"`
		TotalPrice      float64 `json:"totalPrice"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.TotalPrice != 750 {
		t.Errorf("expected total 750, got %v", view.TotalPrice)
	}
	if view.StartDate != "2026-07-10" || view.EndDate != "2026-07-13" {
		t.Errorf("dates not serialized as calendar days: %+v", view)
	}
	if !strings.HasPrefix(view.ReservationCode, "RES-") {
		t.Errorf("unexpected code %q", view.ReservationCode)
	}
}

func TestCreateReservationRouteStatusMapping(t *testing.T) {
	app := buildBookingTestApp(t)
	seedBookingFixtures(t)
	token := staffToken(t)

	// Inverted range -> 400.
	resp := doJSON(app, http.MethodPost, "/api/reservations", token,
		`{"guestId":1,"roomId":1,"startDate":"2026-07-13","endDate":"2026-07-10"}`)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("inverted range: expected 400, got %d", resp.Code)
	}

	// Unknown guest -> 404.
	resp = doJSON(app, http.MethodPost, "/api/reservations", token,
		`{"guestId":99,"roomId":1,"startDate":"2026-07-10","endDate":"2026-07-13"}`)
	if resp.Code != http.StatusNotFound {
		t.Errorf("unknown guest: expected 404, got %d", resp.Code)
	}

	// Overlap -> 409.
	resp = doJSON(app, http.MethodPost, "/api/reservations", token,
		`{"guestId":1,"roomId":1,"startDate":"2026-07-10","endDate":"2026-07-13"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("seed booking: expected 201, got %d", resp.Code)
	}
	resp = doJSON(app, http.MethodPost, "/api/reservations", token,
		`{"guestId":1,"roomId":1,"startDate":"2026-07-12","endDate":"2026-07-15"}`)
	if resp.Code != http.StatusConflict {
		t.Errorf("overlap: expected 409, got %d", resp.Code)
	}
}

func TestClientReservationOwnership(t *testing.T) {
	app := buildBookingTestApp(t)
	seedBookingFixtures(t)

	intruder := models.Guest{Name: "Dan", Email: "dan@example.com", Password: "x"}
	if err := storage.DB.Create(&intruder).Error; err != nil {
		t.Fatalf("seed intruder: %v", err)
	}

	// Guest books their own stay.
	resp := doJSON(app, http.MethodPost, "/api/client/reservations", guestToken(t, "ion@example.com"),
		`{"roomId":1,"startDate":"2026-07-10","endDate":"2026-07-12"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("guest booking: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var view struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Someone else cannot cancel it.
	resp = doJSON(app, http.MethodDelete, "/api/client/reservations/1", guestToken(t, "dan@example.com"), "")
	if resp.Code != http.StatusForbidden {
		t.Errorf("foreign cancel: expected 403, got %d", resp.Code)
	}

	// The owner can.
	resp = doJSON(app, http.MethodDelete, "/api/client/reservations/1", guestToken(t, "ion@example.com"), "")
	if resp.Code != http.StatusNoContent {
		t.Errorf("owner cancel: expected 204, got %d: %s", resp.Code, resp.Body.String())
	}

	// And their listing is scoped to them.
	resp = doJSON(app, http.MethodGet, "/api/client/reservations", guestToken(t, "dan@example.com"), "")
	if resp.Code != http.StatusOK {
		t.Fatalf("listing: expected 200, got %d", resp.Code)
	}
	var listed []json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("dan sees %d reservations, want 0", len(listed))
	}
}

func TestDeleteRoomBlockedByReservations(t *testing.T) {
	app := buildBookingTestApp(t)
	seedBookingFixtures(t)
	staff := staffToken(t)
	manager := managerToken(t)

	resp := doJSON(app, http.MethodPost, "/api/reservations", staff,
		`{"guestId":1,"roomId":1,"startDate":"2026-07-10","endDate":"2026-07-12"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.Code)
	}

	// A room with a live reservation cannot be deleted.
	resp = doJSON(app, http.MethodDelete, "/api/rooms/1", manager, "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 while reserved, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodDelete, "/api/reservations/1", staff, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("cancel: expected 204, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodDelete, "/api/rooms/1", manager, "")
	if resp.Code != http.StatusNoContent {
		t.Errorf("expected 204 after cancel, got %d", resp.Code)
	}
}

func TestCancelReservationRoute(t *testing.T) {
	app := buildBookingTestApp(t)
	_, room := seedBookingFixtures(t)
	token := staffToken(t)

	resp := doJSON(app, http.MethodPost, "/api/reservations", token,
		`{"guestId":1,"roomId":1,"startDate":"2026-07-10","endDate":"2026-07-12"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.Code)
	}

	resp = doJSON(app, http.MethodDelete, "/api/reservations/1", token, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("cancel: expected 204, got %d", resp.Code)
	}

	var reloaded models.Room
	if err := storage.DB.First(&reloaded, room.ID).Error; err != nil {
		t.Fatalf("reload room: %v", err)
	}
	if reloaded.Status != models.RoomStatusNeedsCleaning {
		t.Errorf("expected NeedsCleaning after cancel, got %q", reloaded.Status)
	}

	// Cancelling again -> 404.
	resp = doJSON(app, http.MethodDelete, "/api/reservations/1", token, "")
	if resp.Code != http.StatusNotFound {
		t.Errorf("double cancel: expected 404, got %d", resp.Code)
	}
}
