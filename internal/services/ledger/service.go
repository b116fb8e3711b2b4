// Package ledger implements the transfer engine: validation, atomic
// execution and the large-transaction threshold policy. Wallet balances
// are mutated here and nowhere else.
package ledger

import (
	"context"
	"fmt"
	"sort"

	errs "payva/internal/errors"
	"payva/internal/models"
	"payva/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	repo    repositories.LedgerRepository
	cache   CacheInvalidator
	issuer  TokenIssuer
	config  Config
	metrics MetricsCollector
}

// NewService creates a new ledger engine.
func NewService(
	repo repositories.LedgerRepository,
	cache CacheInvalidator,
	issuer TokenIssuer,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if issuer == nil {
		panic("token issuer is required")
	}

	if config.LargeTransactionThreshold.IsZero() {
		config.LargeTransactionThreshold = DefaultLargeTransactionThreshold
	}
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		issuer:  issuer,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) Execute(ctx context.Context, actingUser *models.User, req TransferRequest) (*Receipt, error) {
	if actingUser == nil {
		return nil, errs.ErrUnauthorizedOperation
	}

	sender, err := s.resolveMethod(req.SenderKind, req.SenderID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.resolveRecipient(req)
	if err != nil {
		return nil, err
	}

	txType, err := transferType(sender.MethodKind(), recipient.MethodKind())
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		category, err := s.repo.GetCategory(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !OwnsCategory(actingUser, category) {
			return nil, errs.ErrUnauthorizedOperation
		}
	}

	if err := ValidateTransfer(actingUser, sender, recipient, req.Amount); err != nil {
		s.metrics.RecordError("transfer", errs.CodeOf(err))
		return nil, err
	}

	record := &models.Transaction{
		Reference:       uuid.NewString(),
		Type:            txType,
		Status:          models.TransactionStatusPending,
		SenderUserID:    actingUser.ID,
		RecipientUserID: recipient.OwnerID(),
		SenderKind:      sender.MethodKind(),
		SenderMethodID:  sender.MethodID(),
		RecipientKind:   recipient.MethodKind(),
		RecipientID:     recipient.MethodID(),
		Amount:          req.Amount,
		Currency:        s.config.DefaultCurrency,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
	}

	if req.Amount.GreaterThanOrEqual(s.config.LargeTransactionThreshold) {
		return s.suspendForVerification(ctx, record)
	}
	return s.commitImmediately(ctx, record)
}

// commitImmediately applies the transfer as one database transaction:
// debit, credit and the persisted record commit or roll back together.
func (s *service) commitImmediately(ctx context.Context, record *models.Transaction) (*Receipt, error) {
	err := s.repo.ExecuteInTransaction(func(txRepo repositories.LedgerRepository) error {
		record.Status = models.TransactionStatusFinalized
		if err := txRepo.CreateTransaction(record); err != nil {
			return err
		}
		return s.Finalize(ctx, txRepo, record)
	})
	if err != nil {
		s.metrics.RecordError("transfer", errs.CodeOf(err))
		if IsValidationError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}

	s.InvalidateWallets(ctx, record)
	s.metrics.RecordTransaction(record.Type, record.Amount)

	return &Receipt{Transaction: record}, nil
}

// suspendForVerification persists the transaction in a pending state
// with balances untouched, binds a single-use token to it and hands the
// token to the notification port. The transfer stays invisible to
// balance readers until the token is redeemed or expires.
func (s *service) suspendForVerification(ctx context.Context, record *models.Transaction) (*Receipt, error) {
	// The threshold is reconfigurable, so the record keeps the value
	// that suspended it.
	record.Metadata = models.JSON{
		"verification_threshold": s.config.LargeTransactionThreshold.String(),
	}

	var token *models.VerificationToken
	err := s.repo.ExecuteInTransaction(func(txRepo repositories.LedgerRepository) error {
		if err := txRepo.CreateTransaction(record); err != nil {
			return err
		}
		var err error
		token, err = s.issuer.IssueInTransaction(txRepo, record)
		return err
	})
	if err != nil {
		s.metrics.RecordError("transfer_pending", errs.CodeOf(err))
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}

	// Fire and forget: delivery must never block or fail the transfer.
	s.issuer.Deliver(ctx, token, record)
	s.metrics.RecordTransaction(record.Type+"_pending", record.Amount)

	return &Receipt{Transaction: record, Pending: true}, nil
}

// Finalize performs the deferred debit and credit of record inside the
// caller's transaction scope. Wallets are locked in ascending id order
// so that two transfers crossing the same pair in opposite directions
// cannot deadlock, and the validator re-runs on the locked state before
// any balance moves.
func (s *service) Finalize(ctx context.Context, repo repositories.LedgerRepository, record *models.Transaction) error {
	actingUser, err := repo.GetUser(record.SenderUserID)
	if err != nil {
		return err
	}

	locked, err := lockWallets(repo, record)
	if err != nil {
		return err
	}

	sender, err := methodFrom(repo, locked, record.SenderKind, record.SenderMethodID)
	if err != nil {
		return err
	}
	recipient, err := methodFrom(repo, locked, record.RecipientKind, record.RecipientID)
	if err != nil {
		return err
	}

	if err := ValidateTransfer(actingUser, sender, recipient, record.Amount); err != nil {
		return err
	}

	if wallet, ok := sender.(*models.Wallet); ok {
		if err := repo.UpdateWalletBalance(wallet.ID, wallet.Balance.Sub(record.Amount)); err != nil {
			return err
		}
	}
	if wallet, ok := recipient.(*models.Wallet); ok {
		if err := repo.UpdateWalletBalance(wallet.ID, wallet.Balance.Add(record.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// lockWallets takes FOR UPDATE locks on every wallet the record
// touches, in ascending id order.
func lockWallets(repo repositories.LedgerRepository, record *models.Transaction) (map[uint]*models.Wallet, error) {
	ids := make([]uint, 0, 2)
	if record.SenderKind == models.MethodWallet {
		ids = append(ids, record.SenderMethodID)
	}
	if record.RecipientKind == models.MethodWallet {
		ids = append(ids, record.RecipientID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked := make(map[uint]*models.Wallet, len(ids))
	for _, id := range ids {
		if _, ok := locked[id]; ok {
			continue
		}
		wallet, err := repo.GetWalletForUpdate(id)
		if err != nil {
			return nil, err
		}
		locked[id] = wallet
	}
	return locked, nil
}

func methodFrom(repo repositories.LedgerRepository, locked map[uint]*models.Wallet, kind models.MethodKind, id uint) (models.PaymentMethod, error) {
	if kind == models.MethodWallet {
		wallet, ok := locked[id]
		if !ok {
			return nil, repositories.ErrWalletNotFound
		}
		return wallet, nil
	}
	return repo.GetCard(id)
}

func (s *service) resolveMethod(kind models.MethodKind, id uint) (models.PaymentMethod, error) {
	switch kind {
	case models.MethodWallet:
		return s.repo.GetWallet(id)
	case models.MethodCard:
		return s.repo.GetCard(id)
	default:
		return nil, errs.ErrInvalidOperation
	}
}

// resolveRecipient resolves the receiving method, falling back to the
// recipient user's default wallet when no method id was given.
func (s *service) resolveRecipient(req TransferRequest) (models.PaymentMethod, error) {
	if req.RecipientID == 0 {
		if req.RecipientUserID == 0 {
			return nil, errs.ErrInvalidOperation
		}
		return s.repo.GetDefaultWallet(req.RecipientUserID)
	}
	return s.resolveMethod(req.RecipientKind, req.RecipientID)
}

// InvalidateWallets drops the cached entries of every wallet record
// touched. Runs outside the database transaction, after commit.
func (s *service) InvalidateWallets(ctx context.Context, record *models.Transaction) {
	if s.cache == nil {
		return
	}
	if record.SenderKind == models.MethodWallet {
		_ = s.cache.InvalidateWallet(ctx, record.SenderMethodID)
	}
	if record.RecipientKind == models.MethodWallet {
		_ = s.cache.InvalidateWallet(ctx, record.RecipientID)
	}
}
