package repositories

import (
	"fmt"

	"payva/internal/models"

	"gorm.io/gorm"
)

// WalletRepository covers wallet lifecycle reads and writes. Balance
// mutation is deliberately absent: balances move only through the
// ledger engine via LedgerRepository.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	ListByOwner(userID uint) ([]models.Wallet, error)
	Update(wallet *models.Wallet) error
	Delete(id uint) error
	IsDuplicateName(userID uint, name string, excludeID uint) (bool, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	if err := r.db.Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByID(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) ListByOwner(userID uint) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

func (r *walletRepository) Update(wallet *models.Wallet) error {
	if err := r.db.Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Wallet{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) IsDuplicateName(userID uint, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Wallet{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check wallet name: %w", err)
	}
	return count > 0, nil
}

