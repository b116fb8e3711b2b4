package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Wallet struct {
	ID        uint            `gorm:"primarykey"`
	UserID    uint            `gorm:"index:idx_wallet_owner_name,unique;not null"`
	Name      string          `gorm:"index:idx_wallet_owner_name,unique;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	Currency  string          `gorm:"default:'USD'"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (w *Wallet) MethodID() uint         { return w.ID }
func (w *Wallet) MethodKind() MethodKind { return MethodWallet }
func (w *Wallet) OwnerID() uint          { return w.UserID }

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// New wallets always start empty.
	w.Balance = decimal.Zero
	return nil
}
