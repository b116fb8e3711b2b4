package models

import (
	"time"

	"gorm.io/gorm"
)

// Card is an external funding source. It carries no internal balance;
// the ledger only debits or credits the wallet side of a card transfer.
type Card struct {
	ID             uint   `gorm:"primarykey"`
	UserID         uint   `gorm:"index;not null"`
	MaskedNumber   string `gorm:"not null"`
	StripeToken    string `gorm:"not null"`
	CardholderName string `gorm:"not null"`
	ExpiryMonth    int    `gorm:"not null"`
	ExpiryYear     int    `gorm:"not null"`
	CardType       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (c *Card) MethodID() uint         { return c.ID }
func (c *Card) MethodKind() MethodKind { return MethodCard }
func (c *Card) OwnerID() uint          { return c.UserID }
