package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterGuestInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

// RegisterGuest creates a guest self-service account.
func RegisterGuest(ctx iris.Context) {
	var input RegisterGuestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.Guest
	res := storage.DB.Where("email = ?", input.Email).Limit(1).Find(&existing)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "A guest with this email already exists", ctx)
		return
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	guest := models.Guest{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
	}
	if err := storage.DB.Create(&guest).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	tokenPair, err := utils.CreateTokenPair(utils.PrincipalGuest, guest.ID, utils.PrincipalGuest, guest.Email)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"guest":        guest,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

// LoginGuest exchanges guest credentials for a token pair.
func LoginGuest(ctx iris.Context) {
	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var guest models.Guest
	if err := storage.DB.Where("email = ?", input.Email).First(&guest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid email or password", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(guest.Password), []byte(input.Password)) != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid email or password", ctx)
		return
	}

	tokenPair, err := utils.CreateTokenPair(utils.PrincipalGuest, guest.ID, utils.PrincipalGuest, guest.Email)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"guest":        guest,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
