package repositories

import (
	"fmt"
	"time"

	"payva/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository is the persistence port of the ledger engine and the
// verification workflow. The *ForUpdate lookups take row locks and are
// only meaningful inside ExecuteInTransaction.
type LedgerRepository interface {
	GetUser(id uint) (*models.User, error)
	GetWallet(id uint) (*models.Wallet, error)
	GetWalletForUpdate(id uint) (*models.Wallet, error)
	GetDefaultWallet(userID uint) (*models.Wallet, error)
	UpdateWalletBalance(walletID uint, balance decimal.Decimal) error
	GetCard(id uint) (*models.Card, error)
	GetCategory(id uint) (*models.Category, error)

	CreateTransaction(tx *models.Transaction) error
	GetTransaction(id uint) (*models.Transaction, error)
	UpdateTransactionStatus(id uint, status string) error

	CreateToken(t *models.VerificationToken) error
	GetTokenByValueForUpdate(value string) (*models.VerificationToken, error)
	ConsumeToken(id uint) error
	ListStaleTokens(cutoff time.Time) ([]models.VerificationToken, error)

	// ExecuteInTransaction runs fn inside one database transaction; the
	// repository passed to fn is scoped to that transaction.
	ExecuteInTransaction(fn func(LedgerRepository) error) error
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *ledgerRepository) GetWallet(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *ledgerRepository) GetWalletForUpdate(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *ledgerRepository) GetDefaultWallet(userID uint) (*models.Wallet, error) {
	user, err := r.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.DefaultWalletID == nil {
		return nil, ErrWalletNotFound
	}
	return r.GetWallet(*user.DefaultWalletID)
}

func (r *ledgerRepository) UpdateWalletBalance(walletID uint, balance decimal.Decimal) error {
	result := r.db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Update("balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *ledgerRepository) GetCard(id uint) (*models.Card, error) {
	var card models.Card
	if err := r.db.First(&card, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *ledgerRepository) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *ledgerRepository) CreateTransaction(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetTransaction(id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.First(&tx, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) UpdateTransactionStatus(id uint, status string) error {
	result := r.db.Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *ledgerRepository) CreateToken(t *models.VerificationToken) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetTokenByValueForUpdate(value string) (*models.VerificationToken, error) {
	var token models.VerificationToken
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token = ?", value).
		First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to lock verification token: %w", err)
	}
	return &token, nil
}

func (r *ledgerRepository) ConsumeToken(id uint) error {
	result := r.db.Model(&models.VerificationToken{}).
		Where("id = ? AND consumed = false", id).
		Update("consumed", true)
	if result.Error != nil {
		return fmt.Errorf("failed to consume token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *ledgerRepository) ListStaleTokens(cutoff time.Time) ([]models.VerificationToken, error) {
	var tokens []models.VerificationToken
	err := r.db.Where("consumed = false AND created_at < ?", cutoff).Find(&tokens).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale tokens: %w", err)
	}
	return tokens, nil
}

func (r *ledgerRepository) ExecuteInTransaction(fn func(LedgerRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}
