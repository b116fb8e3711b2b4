package repositories

import (
	"fmt"

	"payva/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository serves history and reporting reads. Writes go
// through LedgerRepository exclusively.
type TransactionRepository interface {
	GetByID(id uint) (*models.Transaction, error)
	GetByReference(reference string) (*models.Transaction, error)
	ListByUser(userID uint, limit, offset int) ([]models.Transaction, error)
	ListByWallet(walletID uint, limit, offset int) ([]models.Transaction, error)
	ListAll(limit, offset int) ([]models.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.First(&tx, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) GetByReference(reference string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.Where("reference = ?", reference).First(&tx).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByUser(userID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.
		Where("sender_user_id = ? OR recipient_user_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) ListByWallet(walletID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.
		Where("(sender_kind = ? AND sender_method_id = ?) OR (recipient_kind = ? AND recipient_id = ?)",
			models.MethodWallet, walletID, models.MethodWallet, walletID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) ListAll(limit, offset int) ([]models.Transaction, int64, error) {
	var txs []models.Transaction
	var total int64
	if err := r.db.Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}
