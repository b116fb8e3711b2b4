package models

import (
	"time"

	"gorm.io/gorm"
)

// Category tags transactions for spending reports. It does not own the
// transactions it tags; deleting a category detaches them.
type Category struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"index:idx_category_owner_name,unique;not null"`
	Name      string `gorm:"index:idx_category_owner_name,unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
