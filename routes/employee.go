package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/robertib24/HotelStaffGuests/models"
	"github.com/robertib24/HotelStaffGuests/storage"
	"github.com/robertib24/HotelStaffGuests/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type EmployeeInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=256"`
	Role     string `json:"role" validate:"required,oneof=Manager Receptionist Housekeeping"`
}

func GetEmployees(ctx iris.Context) {
	var employees []models.Employee
	if err := storage.DB.Order("id ASC").Find(&employees).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(employees)
}

func GetEmployee(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid employee ID", ctx)
		return
	}

	var employee models.Employee
	if dbErr := storage.DB.Preload("ManagedRooms").First(&employee, id).Error; dbErr != nil {
		if dbErr == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(employee)
}

func UpdateEmployee(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid employee ID", ctx)
		return
	}

	var input EmployeeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var employee models.Employee
	if dbErr := storage.DB.First(&employee, id).Error; dbErr != nil {
		if dbErr == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	employee.Name = input.Name
	employee.Email = input.Email
	employee.Role = input.Role
	if input.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		employee.Password = string(hash)
	}

	if saveErr := storage.DB.Save(&employee).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(employee)
}

func DeleteEmployee(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid employee ID", ctx)
		return
	}

	// Rooms managed by this employee simply lose their manager reference.
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Room{}).
			Where("managed_by_id = ?", id).
			Update("managed_by_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Employee{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
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
