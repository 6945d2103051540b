package routes

import (
	"errors"

	"github.com/kataras/iris/v12"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/services"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
)

type ReservationInput struct {
	GuestID   uint        `json:"guestId" validate:"required"`
	RoomID    uint        `json:"roomId" validate:"required"`
	StartDate models.Date `json:"startDate" validate:"required"`
	EndDate   models.Date `json:"endDate" validate:"required"`
}

type ClientReservationInput struct {
	RoomID    uint        `json:"roomId" validate:"required"`
	StartDate models.Date `json:"startDate" validate:"required"`
	EndDate   models.Date `json:"endDate" validate:"required"`
}

// handleReservationError translates the booking core's error taxonomy into
// transport statuses. Unknown errors stay opaque 500s so callers can tell
// "your request was bad" apart from "the system failed".
func handleReservationError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", err.Error(), ctx)
	case errors.Is(err, services.ErrInvalidRange):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
	case errors.Is(err, services.ErrReservationConflict):
		utils.CreateError(iris.StatusConflict, "Reservation Conflict", err.Error(), ctx)
	case errors.Is(err, services.ErrForbidden):
		utils.CreateError(iris.StatusForbidden, "Forbidden", err.Error(), ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}

// GetReservations lists every reservation (staff view).
func GetReservations(ctx iris.Context) {
	views, err := services.NewReservationService(storage.DB).List()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(views)
}

// CreateReservation books a room for a guest (staff operation).
func CreateReservation(ctx iris.Context) {
	var input ReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	view, err := services.NewReservationService(storage.DB).
		Create(input.GuestID, input.RoomID, input.StartDate, input.EndDate)
	if err != nil {
		handleReservationError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(view)
}

// UpdateReservation re-validates and reprices an existing reservation.
func UpdateReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid reservation ID", ctx)
		return
	}

	var input ReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	view, opErr := services.NewReservationService(storage.DB).
		Update(id, input.GuestID, input.RoomID, input.StartDate, input.EndDate)
	if opErr != nil {
		handleReservationError(opErr, ctx)
		return
	}
	ctx.JSON(view)
}

// CancelReservation cancels any reservation (staff operation).
func CancelReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid reservation ID", ctx)
		return
	}

	if _, opErr := services.NewReservationService(storage.DB).Cancel(id); opErr != nil {
		handleReservationError(opErr, ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// GetMyReservations lists the authenticated guest's reservations.
func GetMyReservations(ctx iris.Context) {
	email := ctx.Values().GetString("guestEmail")

	views, err := services.NewReservationService(storage.DB).ListForGuest(email)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(views)
}

// CreateClientReservation books a room on behalf of the authenticated guest.
func CreateClientReservation(ctx iris.Context) {
	email := ctx.Values().GetString("guestEmail")

	var input ClientReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	view, err := services.NewReservationService(storage.DB).
		CreateForGuest(email, input.RoomID, input.StartDate, input.EndDate)
	if err != nil {
		handleReservationError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(view)
}

// CancelClientReservation cancels a reservation owned by the authenticated
// guest; cancelling someone else's reservation is Forbidden.
func CancelClientReservation(ctx iris.Context) {
	email := ctx.Values().GetString("guestEmail")

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid reservation ID", ctx)
		return
	}

	if _, opErr := services.NewReservationService(storage.DB).CancelForGuest(id, email); opErr != nil {
		handleReservationError(opErr, ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
