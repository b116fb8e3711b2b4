package repositories

import (
	"fmt"
	"time"

	"payva/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	ListByOwner(userID uint) ([]models.Category, error)
	Update(category *models.Category) error
	// Delete removes the category and detaches its transactions. The
	// transactions themselves stay untouched: a category never owns the
	// ledger records it tags.
	Delete(id uint) error
	IsDuplicateName(userID uint, name string, excludeID uint) (bool, error)
	SumSpendings(categoryID uint, from, to *time.Time) (decimal.Decimal, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) ListByOwner(userID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(category *models.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to detach transactions: %w", err)
		}

		result := tx.Delete(&models.Category{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

func (r *categoryRepository) IsDuplicateName(userID uint, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}

func (r *categoryRepository) SumSpendings(categoryID uint, from, to *time.Time) (decimal.Decimal, error) {
	query := r.db.Model(&models.Transaction{}).
		Where("category_id = ? AND status = ?", categoryID, models.TransactionStatusFinalized)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var total decimal.Decimal
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum category spendings: %w", err)
	}
	return total, nil
}
