package repositories

import "errors"

// Sentinel lookup errors mapped from gorm.ErrRecordNotFound.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrCardNotFound        = errors.New("card not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTokenNotFound       = errors.New("verification token not found")
)
