package verification

import (
	"context"
	"time"

	"payva/internal/models"
	"payva/internal/repositories"
)

// Service redeems verification tokens and drives the pending
// transaction state machine:
//
//	Pending -> Verified -> Finalized
//	Pending -> Expired   (validity window passed, terminal)
//	Pending -> Rejected  (re-validation failed at redemption)
type Service interface {
	Redeem(ctx context.Context, tokenValue string) (*models.Transaction, error)
	StartExpirySweeper(ctx context.Context, interval time.Duration)
}

// Finalizer applies the deferred debit and credit of a pending
// transaction inside the given transaction scope, re-validating first.
// The ledger engine implements it. InvalidateWallets runs after the
// enclosing transaction commits, so cached balances of the touched
// wallets never outlive the transfer they predate.
type Finalizer interface {
	Finalize(ctx context.Context, repo repositories.LedgerRepository, tx *models.Transaction) error
	InvalidateWallets(ctx context.Context, tx *models.Transaction)
}

// Notifier delivers a verification token to the sender's registered
// contact address. Fire and forget: the workflow consumes no result.
type Notifier interface {
	DeliverVerification(token *models.VerificationToken, tx *models.Transaction, recipient string)
}

// Config holds the workflow's tuning knobs.
type Config struct {
	// TokenValidity is the window within which a token may be
	// redeemed, counted from issuance.
	TokenValidity time.Duration
}

// DefaultTokenValidity matches the product default of one day.
const DefaultTokenValidity = 24 * time.Hour

// DefaultSweepInterval is how often the background sweeper looks for
// pending transactions past their validity window.
const DefaultSweepInterval = 15 * time.Minute
