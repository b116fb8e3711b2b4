// Package verification implements the token workflow for transfers
// suspended by the ledger's large-transaction threshold.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "payva/internal/errors"
	"payva/internal/models"
	"payva/internal/repositories"
	"payva/internal/services/ledger"
)

type service struct {
	repo      repositories.LedgerRepository
	finalizer Finalizer
	config    Config
	now       func() time.Time
}

// NewService creates a new verification service.
func NewService(repo repositories.LedgerRepository, finalizer Finalizer, config Config) Service {
	if repo == nil {
		panic("repo is required")
	}
	if finalizer == nil {
		panic("finalizer is required")
	}
	if config.TokenValidity == 0 {
		config.TokenValidity = DefaultTokenValidity
	}
	return &service{
		repo:      repo,
		finalizer: finalizer,
		config:    config,
		now:       time.Now,
	}
}

// Redeem consumes a token and completes or discards its bound pending
// transaction. The whole transition runs in one database transaction
// with the token row locked, so repeated redemption attempts after
// Finalized, Expired or Rejected can never double-apply: at most one
// caller observes the unconsumed token.
func (s *service) Redeem(ctx context.Context, tokenValue string) (*models.Transaction, error) {
	var (
		result  *models.Transaction
		outcome error
	)

	err := s.repo.ExecuteInTransaction(func(txRepo repositories.LedgerRepository) error {
		token, err := txRepo.GetTokenByValueForUpdate(tokenValue)
		if err != nil {
			if errors.Is(err, repositories.ErrTokenNotFound) {
				outcome = errs.ErrInvalidToken
				return nil
			}
			return err
		}
		if token.Consumed {
			outcome = errs.ErrInvalidToken
			return nil
		}

		record, err := txRepo.GetTransaction(token.TransactionID)
		if err != nil {
			return err
		}
		if record.Status != models.TransactionStatusPending {
			outcome = errs.ErrInvalidToken
			return nil
		}

		if err := txRepo.ConsumeToken(token.ID); err != nil {
			return err
		}

		if s.now().After(token.ExpiresAt(s.config.TokenValidity)) {
			// Terminal: the transfer is never applied.
			outcome = errs.ErrTokenExpired
			return txRepo.UpdateTransactionStatus(record.ID, models.TransactionStatusExpired)
		}

		// Verified. State may have drifted since the transfer was
		// created, so the validator runs again before any balance moves.
		if err := s.finalizer.Finalize(ctx, txRepo, record); err != nil {
			if ledger.IsValidationError(err) {
				outcome = err
				return txRepo.UpdateTransactionStatus(record.ID, models.TransactionStatusRejected)
			}
			return err
		}

		if err := txRepo.UpdateTransactionStatus(record.ID, models.TransactionStatusFinalized); err != nil {
			return err
		}
		record.Status = models.TransactionStatusFinalized
		result = record
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	if outcome != nil {
		return nil, outcome
	}

	// Balances moved: cached copies of both wallets are now stale.
	s.finalizer.InvalidateWallets(ctx, result)
	return result, nil
}
