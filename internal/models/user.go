package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID              uint   `gorm:"primarykey"`
	Email           string `gorm:"uniqueIndex;not null"`
	Password        string `gorm:"not null"`
	FirstName       string `gorm:"not null"`
	LastName        string `gorm:"not null"`
	Phone           string `gorm:"uniqueIndex;not null"`
	Employee        bool   `gorm:"default:false"`
	Blocked         bool   `gorm:"default:false"`
	DefaultWalletID *uint  `gorm:"default:null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// IsEmployee reports whether the user holds the privileged employee role.
// Employees get cross-user read access for administrative flows, never
// write access to another user's balances.
func (u *User) IsEmployee() bool {
	return u.Employee
}
