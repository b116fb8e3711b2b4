package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeWalletToWallet = "WALLET_TO_WALLET"
	TransactionTypeCardToWallet   = "CARD_TO_WALLET"
	TransactionTypeWalletToCard   = "WALLET_TO_CARD"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusFinalized = "finalized"
	TransactionStatusExpired   = "expired"
	TransactionStatusRejected  = "rejected"
)

// Transaction is an immutable ledger record. Once created it is never
// updated except for its status moving through the verification state
// machine, and never deleted; category deletion detaches the category
// reference without reversing the movement.
type Transaction struct {
	ID              uint       `gorm:"primarykey"`
	Reference       string     `gorm:"uniqueIndex;not null"`
	Type            string     `gorm:"not null"`
	Status          string     `gorm:"not null;default:'pending'"`
	SenderUserID    uint       `gorm:"index;not null"`
	RecipientUserID uint       `gorm:"index;not null"`
	SenderKind      MethodKind `gorm:"not null"`
	SenderMethodID  uint       `gorm:"not null"`
	RecipientKind   MethodKind `gorm:"not null"`
	RecipientID     uint       `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency        string          `gorm:"default:'USD'"`
	Description     string
	CategoryID      *uint `gorm:"index"`
	Metadata        JSON  `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
