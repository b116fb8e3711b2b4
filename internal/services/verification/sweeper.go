package verification

import (
	"context"
	"errors"
	"time"

	"payva/internal/models"
	"payva/internal/repositories"

	"github.com/sirupsen/logrus"
)

// StartExpirySweeper launches a background loop that expires pending
// transactions whose tokens passed their validity window without being
// redeemed. Expiry is also enforced lazily at redemption time; the
// sweeper just keeps the books from accumulating stale pending rows.
func (s *service) StartExpirySweeper(ctx context.Context, interval time.Duration) {
	go func() {
		logrus.WithField("interval", interval).Info("verification expiry sweeper started")
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logrus.Info("verification expiry sweeper stopped")
				return
			case <-ticker.C:
				s.sweepExpired()
			}
		}
	}()
}

func (s *service) sweepExpired() {
	cutoff := s.now().Add(-s.config.TokenValidity)
	tokens, err := s.repo.ListStaleTokens(cutoff)
	if err != nil {
		logrus.WithError(err).Error("expiry sweep failed to list stale tokens")
		return
	}

	for _, stale := range tokens {
		err := s.repo.ExecuteInTransaction(func(txRepo repositories.LedgerRepository) error {
			token, err := txRepo.GetTokenByValueForUpdate(stale.Token)
			if err != nil {
				if errors.Is(err, repositories.ErrTokenNotFound) {
					return nil
				}
				return err
			}
			if token.Consumed {
				// A racing redemption got there first.
				return nil
			}
			record, err := txRepo.GetTransaction(token.TransactionID)
			if err != nil {
				return err
			}
			if record.Status != models.TransactionStatusPending {
				return nil
			}
			if err := txRepo.ConsumeToken(token.ID); err != nil {
				return err
			}
			return txRepo.UpdateTransactionStatus(record.ID, models.TransactionStatusExpired)
		})
		if err != nil {
			logrus.WithError(err).WithField("token_id", stale.ID).Error("failed to expire stale token")
		}
	}
}
