package routes

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceRequestInput struct {
	RoomID   uint           `json:"roomId" validate:"required"`
	Kind     string         `json:"kind" validate:"required,oneof=RoomService Housekeeping"`
	Request  string         `json:"request" validate:"required,max=1000"`
	Items    datatypes.JSON `json:"items"`
	Priority string         `json:"priority" validate:"omitempty,oneof=Low Normal High"`
}

type RequestStatusInput struct {
	Status       string `json:"status" validate:"required"`
	Notes        string `json:"notes" validate:"max=500"`
	AssignedToID *uint  `json:"assignedToID"`
}

// CreateServiceRequest opens a room-service or housekeeping ticket for the
// authenticated guest.
func CreateServiceRequest(ctx iris.Context) {
	guestID := ctx.Values().Get("guestID").(uint)

	var input ServiceRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var room models.Room
	if err := storage.DB.First(&room, input.RoomID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	priority := input.Priority
	if priority == "" {
		priority = "Normal"
	}

	request := models.ServiceRequest{
		GuestID:  guestID,
		RoomID:   input.RoomID,
		Kind:     input.Kind,
		Request:  input.Request,
		Items:    input.Items,
		Priority: priority,
		Status:   models.RequestStatusPending,
	}
	if err := storage.DB.Create(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(request)
}

// GetServiceRequests lists tickets for staff, optionally filtered by
// ?status= and ?kind=.
func GetServiceRequests(ctx iris.Context) {
	q := storage.DB.Preload("Guest").Preload("Room").Preload("AssignedTo").Order("created_at DESC")
	if status := ctx.URLParam("status"); status != "" {
		if !models.ValidRequestStatus(status) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown request status: "+status, ctx)
			return
		}
		q = q.Where("status = ?", status)
	}
	if kind := ctx.URLParam("kind"); kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var requests []models.ServiceRequest
	if err := q.Find(&requests).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(requests)
}

// UpdateServiceRequestStatus moves a ticket through its lifecycle and stamps
// CompletedAt when it reaches Completed.
func UpdateServiceRequestStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid request ID", ctx)
		return
	}

	var input RequestStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !models.ValidRequestStatus(input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown request status: "+input.Status, ctx)
		return
	}

	var request models.ServiceRequest
	if dbErr := storage.DB.First(&request, id).Error; dbErr != nil {
		if dbErr == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	request.Status = input.Status
	request.Notes = input.Notes
	if input.AssignedToID != nil {
		request.AssignedToID = input.AssignedToID
	}
	if input.Status == models.RequestStatusCompleted && request.CompletedAt == nil {
		now := time.Now()
		request.CompletedAt = &now
	}

	if saveErr := storage.DB.Save(&request).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(request)
}
