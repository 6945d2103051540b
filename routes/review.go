package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
	"gorm.io/gorm"
)

type ReviewInput struct {
	RoomID uint   `json:"roomId" validate:"required"`
	Title  string `json:"title" validate:"max=256"`
	Body   string `json:"body" validate:"required"`
	Stars  int    `json:"stars" validate:"required,gte=1,lte=5"`
}

// CreateReview lets the authenticated guest review a room.
func CreateReview(ctx iris.Context) {
	guestID := ctx.Values().Get("guestID").(uint)

	var input ReviewInput
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

	review := models.Review{
		GuestID: guestID,
		RoomID:  input.RoomID,
		Title:   input.Title,
		Body:    input.Body,
		Stars:   input.Stars,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

// GetRoomReviews lists reviews for a room, newest first.
func GetRoomReviews(ctx iris.Context) {
	roomID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid room ID", ctx)
		return
	}

	var reviews []models.Review
	if dbErr := storage.DB.Preload("Guest").
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&reviews).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(reviews)
}
