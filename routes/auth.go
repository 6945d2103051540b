package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterEmployeeInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Role     string `json:"role" validate:"omitempty,oneof=Manager Receptionist Housekeeping"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterEmployee creates a staff account.
func RegisterEmployee(ctx iris.Context) {
	var input RegisterEmployeeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.Employee
	res := storage.DB.Where("email = ?", input.Email).Limit(1).Find(&existing)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "An employee with this email already exists", ctx)
		return
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	role := input.Role
	if role == "" {
		role = models.EmployeeRoleReceptionist
	}

	employee := models.Employee{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Role:     role,
	}
	if err := storage.DB.Create(&employee).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(employee)
}

// LoginEmployee exchanges staff credentials for a token pair.
func LoginEmployee(ctx iris.Context) {
	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var employee models.Employee
	if err := storage.DB.Where("email = ?", input.Email).First(&employee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid email or password", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(input.Password)) != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid email or password", ctx)
		return
	}

	tokenPair, err := utils.CreateTokenPair(utils.PrincipalEmployee, employee.ID, employee.Role, employee.Email)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"employee":     employee,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
