package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type GuestInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=256"`
}

func GetGuests(ctx iris.Context) {
	var guests []models.Guest
	if err := storage.DB.Order("id ASC").Find(&guests).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(guests)
}

func GetGuest(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid guest ID", ctx)
		return
	}

	var guest models.Guest
	if dbErr := storage.DB.Preload("Reservations").First(&guest, id).Error; dbErr != nil {
		if dbErr == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(guest)
}

func CreateGuest(ctx iris.Context) {
	var input GuestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	guest := models.Guest{Name: input.Name, Email: input.Email}
	if input.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		guest.Password = string(hash)
	}

	if err := storage.DB.Create(&guest).Error; err != nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "A guest with this email already exists", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(guest)
}

func UpdateGuest(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid guest ID", ctx)
		return
	}

	var input GuestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var guest models.Guest
	if dbErr := storage.DB.First(&guest, id).Error; dbErr != nil {
		if dbErr == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	guest.Name = input.Name
	guest.Email = input.Email
	if input.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		guest.Password = string(hash)
	}

	if saveErr := storage.DB.Save(&guest).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(guest)
}

// DeleteGuest removes a guest together with their reservations and reviews.
// The cascade is an explicit, documented policy here rather than a schema
// annotation: the guest owns those records exclusively.
func DeleteGuest(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid guest ID", ctx)
		return
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, id).Error; err != nil {
			return err
		}
		if err := tx.Where("guest_id = ?", guest.ID).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("guest_id = ?", guest.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&guest).Error
	})
	if txErr != nil {
		if txErr == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
