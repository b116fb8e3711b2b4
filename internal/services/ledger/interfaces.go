package ledger

import (
	"context"

	"payva/internal/models"
	"payva/internal/repositories"
)

// Service is the ledger engine: it validates and executes transfers as
// single atomic units and decides when a transfer must wait for
// verification first.
type Service interface {
	// Execute validates and applies a transfer on behalf of actingUser.
	// Transfers under the large-transaction threshold commit
	// immediately; at or above it a pending receipt comes back and
	// balances stay untouched until the bound token is redeemed.
	Execute(ctx context.Context, actingUser *models.User, req TransferRequest) (*Receipt, error)

	// Finalize applies the deferred debit and credit of a pending
	// transaction. It re-validates against current balances first and
	// must run inside the caller's transaction scope.
	Finalize(ctx context.Context, repo repositories.LedgerRepository, tx *models.Transaction) error

	// InvalidateWallets drops cached state for the wallets tx touched.
	// Callers of Finalize run it once the enclosing transaction has
	// committed, so readers never see a cached pre-transfer balance.
	InvalidateWallets(ctx context.Context, tx *models.Transaction)
}

// TokenIssuer creates and delivers verification tokens for transfers
// suspended by the threshold policy.
type TokenIssuer interface {
	IssueInTransaction(repo repositories.LedgerRepository, tx *models.Transaction) (*models.VerificationToken, error)
	Deliver(ctx context.Context, token *models.VerificationToken, tx *models.Transaction)
}

// CacheInvalidator drops cached wallet state after a commit.
type CacheInvalidator interface {
	InvalidateWallet(ctx context.Context, walletID uint) error
}
