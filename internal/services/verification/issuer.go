package verification

import (
	"context"

	"payva/internal/models"
	"payva/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issuer creates single-use tokens bound to pending transactions and
// hands them to the notification port. It satisfies the ledger engine's
// TokenIssuer port.
type Issuer struct {
	repo     repositories.LedgerRepository
	notifier Notifier
}

func NewIssuer(repo repositories.LedgerRepository, notifier Notifier) *Issuer {
	if repo == nil {
		panic("repo is required")
	}
	return &Issuer{repo: repo, notifier: notifier}
}

// IssueInTransaction persists a token bound to tx within the caller's
// transaction scope. The unique index on transaction_id enforces at
// most one token per pending transaction.
func (i *Issuer) IssueInTransaction(repo repositories.LedgerRepository, tx *models.Transaction) (*models.VerificationToken, error) {
	token := &models.VerificationToken{
		TransactionID: tx.ID,
		Token:         uuid.NewString(),
	}
	if err := repo.CreateToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Deliver sends the token to the sender's registered email. Delivery
// failures are logged, never surfaced: transfer creation must not
// depend on notification delivery.
func (i *Issuer) Deliver(ctx context.Context, token *models.VerificationToken, tx *models.Transaction) {
	if i.notifier == nil {
		return
	}
	sender, err := i.repo.GetUser(tx.SenderUserID)
	if err != nil {
		logrus.WithError(err).WithField("transaction_id", tx.ID).
			Warn("could not resolve sender for token delivery")
		return
	}
	i.notifier.DeliverVerification(token, tx, sender.Email)
}
