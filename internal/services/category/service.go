// Package category manages transaction categories and their spending
// reports. Categories only tag transactions; deleting one detaches the
// tagged records instead of reversing them.
package category

import (
	"context"
	"fmt"
	"time"

	errs "payva/internal/errors"
	"payva/internal/models"
	"payva/internal/repositories"
	"payva/internal/services/ledger"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, owner *models.User, name string) (*models.Category, error)
	Get(ctx context.Context, actingUser *models.User, id uint) (*models.Category, error)
	List(ctx context.Context, owner *models.User) ([]models.Category, error)
	Rename(ctx context.Context, actingUser *models.User, id uint, name string) (*models.Category, error)
	Delete(ctx context.Context, actingUser *models.User, id uint) error
	Spendings(ctx context.Context, actingUser *models.User, id uint, from, to *time.Time) (decimal.Decimal, error)
}

type service struct {
	repo repositories.CategoryRepository
}

func NewService(repo repositories.CategoryRepository) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, owner *models.User, name string) (*models.Category, error) {
	if name == "" {
		return nil, errs.ErrInvalidOperation
	}

	duplicate, err := s.repo.IsDuplicateName(owner.ID, name, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	if duplicate {
		return nil, errs.ErrDuplicateEntity
	}

	category := &models.Category{UserID: owner.ID, Name: name}
	if err := s.repo.Create(category); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	return category, nil
}

func (s *service) Get(ctx context.Context, actingUser *models.User, id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !ledger.OwnsCategory(actingUser, category) && !ledger.IsEmployee(actingUser) {
		return nil, errs.ErrUnauthorizedOperation
	}
	return category, nil
}

func (s *service) List(ctx context.Context, owner *models.User) ([]models.Category, error) {
	return s.repo.ListByOwner(owner.ID)
}

func (s *service) Rename(ctx context.Context, actingUser *models.User, id uint, name string) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !ledger.OwnsCategory(actingUser, category) {
		return nil, errs.ErrUnauthorizedOperation
	}

	duplicate, err := s.repo.IsDuplicateName(actingUser.ID, name, category.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	if duplicate {
		return nil, errs.ErrDuplicateEntity
	}

	category.Name = name
	if err := s.repo.Update(category); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	return category, nil
}

func (s *service) Delete(ctx context.Context, actingUser *models.User, id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !ledger.OwnsCategory(actingUser, category) {
		return errs.ErrUnauthorizedOperation
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	return nil
}

func (s *service) Spendings(ctx context.Context, actingUser *models.User, id uint, from, to *time.Time) (decimal.Decimal, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return decimal.Zero, err
	}
	if !ledger.OwnsCategory(actingUser, category) && !ledger.IsEmployee(actingUser) {
		return decimal.Zero, errs.ErrUnauthorizedOperation
	}
	return s.repo.SumSpendings(id, from, to)
}
