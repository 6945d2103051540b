package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/services"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
	"gorm.io/gorm"
)

type RoomInput struct {
	Number       string  `json:"number" validate:"required"`
	Type         string  `json:"type" validate:"required"`
	NightlyPrice float64 `json:"nightlyPrice" validate:"required,gt=0"`
	ManagedByID  *uint   `json:"managedByID"`
}

type RoomStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// GetRooms lists rooms, optionally filtered by ?status=.
func GetRooms(ctx iris.Context) {
	q := storage.DB.Order("id ASC")
	if status := ctx.URLParam("status"); status != "" {
		if !models.ValidRoomStatus(status) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown room status: "+status, ctx)
			return
		}
		q = q.Where("status = ?", status)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(rooms)
}

func GetRoom(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid room ID", ctx)
		return
	}

	var room models.Room
	if dbErr := storage.DB.Preload("Reservations").First(&room, id).Error; dbErr != nil {
		if dbErr == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(room)
}

func CreateRoom(ctx iris.Context) {
	var input RoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	room := models.Room{
		Number:       input.Number,
		Type:         input.Type,
		NightlyPrice: input.NightlyPrice,
		Status:       models.RoomStatusClean,
		ManagedByID:  input.ManagedByID,
	}
	if err := storage.DB.Create(&room).Error; err != nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "A room with this number already exists", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(room)
}

func UpdateRoom(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid room ID", ctx)
		return
	}

	var input RoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var room models.Room
	if dbErr := storage.DB.First(&room, id).Error; dbErr != nil {
		if dbErr == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	room.Number = input.Number
	room.Type = input.Type
	room.NightlyPrice = input.NightlyPrice
	room.ManagedByID = input.ManagedByID
	if saveErr := storage.DB.Save(&room).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(room)
}

// UpdateRoomStatus is the manual operator transition: any current status may
// be set to any valid status (e.g. taking a room into Maintenance, or
// marking a cleaned room Clean again).
func UpdateRoomStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid room ID", ctx)
		return
	}

	var input RoomStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !models.ValidRoomStatus(input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown room status: "+input.Status, ctx)
		return
	}

	var room models.Room
	if dbErr := storage.DB.First(&room, id).Error; dbErr != nil {
		if dbErr == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	room.Status = input.Status
	if saveErr := storage.DB.Save(&room).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(room)
}

// DeleteRoom removes a room. A room with live reservations cannot be
// deleted; they must be cancelled or moved first.
func DeleteRoom(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid room ID", ctx)
		return
	}

	var active int64
	if countErr := storage.DB.Model(&models.Reservation{}).
		Where("room_id = ?", id).
		Count(&active).Error; countErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if active > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "Room still has reservations; cancel them first", ctx)
		return
	}

	res := storage.DB.Delete(&models.Room{}, id)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// SyncRoomStatus triggers one reconciliation pass on demand; the same pass
// also runs periodically in the background.
func SyncRoomStatus(ctx iris.Context) {
	updated, err := services.NewRoomStatusSynchronizer(storage.DB).Reconcile()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"updatedRooms": updated})
}
