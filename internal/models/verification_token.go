package models

import "time"

// VerificationToken is a single-use token bound to one pending
// transaction. It becomes permanently invalid once consumed or once its
// validity window passes.
type VerificationToken struct {
	ID            uint   `gorm:"primarykey"`
	TransactionID uint   `gorm:"uniqueIndex;not null"`
	Token         string `gorm:"uniqueIndex;not null"`
	Consumed      bool   `gorm:"default:false"`
	CreatedAt     time.Time
}

// ExpiresAt returns the end of the token's validity window.
func (t *VerificationToken) ExpiresAt(validity time.Duration) time.Time {
	return t.CreatedAt.Add(validity)
}
