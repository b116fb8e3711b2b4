// Package wallet manages wallet lifecycle: creation, naming, deletion
// and balance reads. Balance writes are the ledger engine's business,
// never this package's.
package wallet

import (
	"context"
	"fmt"

	errs "payva/internal/errors"
	"payva/internal/models"
	"payva/internal/repositories"
	"payva/internal/services/ledger"

	"github.com/shopspring/decimal"
)

// Service defines the wallet lifecycle operations.
type Service interface {
	Create(ctx context.Context, owner *models.User, name string) (*models.Wallet, error)
	Get(ctx context.Context, actingUser *models.User, id uint) (*models.Wallet, error)
	List(ctx context.Context, owner *models.User) ([]models.Wallet, error)
	Rename(ctx context.Context, actingUser *models.User, id uint, name string) (*models.Wallet, error)
	Delete(ctx context.Context, actingUser *models.User, id uint) error
	GetBalance(ctx context.Context, actingUser *models.User, id uint) (decimal.Decimal, error)
	SetDefault(ctx context.Context, actingUser *models.User, id uint) error
}

// Cache is the wallet-shaped slice of the cache service.
type Cache interface {
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, walletID uint) error
}

type service struct {
	repo     repositories.WalletRepository
	userRepo repositories.UserRepository
	cache    Cache
}

// NewService creates a new wallet service.
func NewService(repo repositories.WalletRepository, userRepo repositories.UserRepository, cache Cache) Service {
	if repo == nil {
		panic("repo is required")
	}
	if userRepo == nil {
		panic("user repo is required")
	}
	return &service{
		repo:     repo,
		userRepo: userRepo,
		cache:    cache,
	}
}

func (s *service) Create(ctx context.Context, owner *models.User, name string) (*models.Wallet, error) {
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

	wallet := &models.Wallet{
		UserID: owner.ID,
		Name:   name,
	}
	if err := s.repo.Create(wallet); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}

	// The user's first wallet becomes their default: cross-user
	// transfers addressed by user land here.
	if owner.DefaultWalletID == nil {
		owner.DefaultWalletID = &wallet.ID
		if err := s.userRepo.Update(owner); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
		}
	}

	return wallet, nil
}

func (s *service) Get(ctx context.Context, actingUser *models.User, id uint) (*models.Wallet, error) {
	wallet, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !ledger.OwnsPaymentMethod(actingUser, wallet) && !ledger.IsEmployee(actingUser) {
		return nil, errs.ErrUnauthorizedOperation
	}
	return wallet, nil
}

func (s *service) List(ctx context.Context, owner *models.User) ([]models.Wallet, error) {
	return s.repo.ListByOwner(owner.ID)
}

func (s *service) Rename(ctx context.Context, actingUser *models.User, id uint, name string) (*models.Wallet, error) {
	wallet, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !ledger.OwnsPaymentMethod(actingUser, wallet) {
		return nil, errs.ErrUnauthorizedOperation
	}

	duplicate, err := s.repo.IsDuplicateName(actingUser.ID, name, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	if duplicate {
		return nil, errs.ErrDuplicateEntity
	}

	wallet.Name = name
	if err := s.repo.Update(wallet); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	s.invalidate(ctx, wallet.ID)
	return wallet, nil
}

func (s *service) Delete(ctx context.Context, actingUser *models.User, id uint) error {
	wallet, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !ledger.OwnsPaymentMethod(actingUser, wallet) {
		return errs.ErrUnauthorizedOperation
	}
	// A wallet holding money cannot be deleted.
	if !wallet.Balance.IsZero() {
		return errs.ErrInvalidOperation
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	s.invalidate(ctx, id)

	// Transfers addressed by user land on the default wallet, so it
	// must never point at a deleted row. Hand the role to the oldest
	// remaining wallet, or clear it when none is left.
	if actingUser.DefaultWalletID != nil && *actingUser.DefaultWalletID == id {
		remaining, err := s.repo.ListByOwner(actingUser.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
		}
		actingUser.DefaultWalletID = nil
		if len(remaining) > 0 {
			actingUser.DefaultWalletID = &remaining[0].ID
		}
		if err := s.userRepo.Update(actingUser); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
		}
	}
	return nil
}

func (s *service) GetBalance(ctx context.Context, actingUser *models.User, id uint) (decimal.Decimal, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetWallet(ctx, id); err == nil && cached != nil {
			if !ledger.OwnsPaymentMethod(actingUser, cached) && !ledger.IsEmployee(actingUser) {
				return decimal.Zero, errs.ErrUnauthorizedOperation
			}
			return cached.Balance, nil
		}
	}

	wallet, err := s.Get(ctx, actingUser, id)
	if err != nil {
		return decimal.Zero, err
	}
	if s.cache != nil {
		_ = s.cache.CacheWallet(ctx, wallet)
	}
	return wallet.Balance, nil
}

func (s *service) SetDefault(ctx context.Context, actingUser *models.User, id uint) error {
	wallet, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !ledger.OwnsPaymentMethod(actingUser, wallet) {
		return errs.ErrUnauthorizedOperation
	}

	actingUser.DefaultWalletID = &wallet.ID
	if err := s.userRepo.Update(actingUser); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, walletID uint) {
	if s.cache != nil {
		_ = s.cache.InvalidateWallet(ctx, walletID)
	}
}
