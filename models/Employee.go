package models

import "gorm.io/gorm"

const (
	EmployeeRoleManager      = "Manager"
	EmployeeRoleReceptionist = "Receptionist"
	EmployeeRoleHousekeeping = "Housekeeping"
)

type Employee struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	Email    string `json:"email" gorm:"not null;uniqueIndex"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"type:varchar(30);default:'Receptionist';index"`

	ManagedRooms []Room `json:"managedRooms,omitempty" gorm:"foreignKey:ManagedByID"`
}
