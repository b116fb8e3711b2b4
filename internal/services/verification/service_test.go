package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "payva/internal/errors"
	"payva/internal/models"
	"payva/internal/repositories"
	"payva/internal/services/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory LedgerRepository covering the slices of the
// interface the verification workflow touches. Writes inside
// ExecuteInTransaction roll back when fn errors.
type memRepo struct {
	users        map[uint]*models.User
	wallets      map[uint]*models.Wallet
	transactions map[uint]*models.Transaction
	tokens       map[uint]*models.VerificationToken
	nextID       uint
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:        make(map[uint]*models.User),
		wallets:      make(map[uint]*models.Wallet),
		transactions: make(map[uint]*models.Transaction),
		tokens:       make(map[uint]*models.VerificationToken),
	}
}

func (r *memRepo) GetUser(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memRepo) GetWallet(id uint) (*models.Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *memRepo) GetWalletForUpdate(id uint) (*models.Wallet, error) { return r.GetWallet(id) }

func (r *memRepo) GetDefaultWallet(userID uint) (*models.Wallet, error) {
	user, err := r.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.DefaultWalletID == nil {
		return nil, repositories.ErrWalletNotFound
	}
	return r.GetWallet(*user.DefaultWalletID)
}

func (r *memRepo) UpdateWalletBalance(walletID uint, balance decimal.Decimal) error {
	w, ok := r.wallets[walletID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.Balance = balance
	return nil
}

func (r *memRepo) GetCard(id uint) (*models.Card, error) { return nil, repositories.ErrCardNotFound }

func (r *memRepo) GetCategory(id uint) (*models.Category, error) {
	return nil, repositories.ErrCategoryNotFound
}

func (r *memRepo) CreateTransaction(tx *models.Transaction) error {
	r.nextID++
	tx.ID = r.nextID
	copied := *tx
	r.transactions[tx.ID] = &copied
	return nil
}

func (r *memRepo) GetTransaction(id uint) (*models.Transaction, error) {
	tx, ok := r.transactions[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (r *memRepo) UpdateTransactionStatus(id uint, status string) error {
	tx, ok := r.transactions[id]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	tx.Status = status
	return nil
}

func (r *memRepo) CreateToken(t *models.VerificationToken) error {
	r.nextID++
	t.ID = r.nextID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	copied := *t
	r.tokens[t.ID] = &copied
	return nil
}

func (r *memRepo) GetTokenByValueForUpdate(value string) (*models.VerificationToken, error) {
	for _, t := range r.tokens {
		if t.Token == value {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repositories.ErrTokenNotFound
}

func (r *memRepo) ConsumeToken(id uint) error {
	t, ok := r.tokens[id]
	if !ok || t.Consumed {
		return repositories.ErrTokenNotFound
	}
	t.Consumed = true
	return nil
}

func (r *memRepo) ListStaleTokens(cutoff time.Time) ([]models.VerificationToken, error) {
	var stale []models.VerificationToken
	for _, t := range r.tokens {
		if !t.Consumed && t.CreatedAt.Before(cutoff) {
			stale = append(stale, *t)
		}
	}
	return stale, nil
}

func (r *memRepo) ExecuteInTransaction(fn func(repositories.LedgerRepository) error) error {
	snapWallets := make(map[uint]*models.Wallet, len(r.wallets))
	for id, w := range r.wallets {
		copied := *w
		snapWallets[id] = &copied
	}
	snapTx := make(map[uint]*models.Transaction, len(r.transactions))
	for id, tx := range r.transactions {
		copied := *tx
		snapTx[id] = &copied
	}
	snapTokens := make(map[uint]*models.VerificationToken, len(r.tokens))
	for id, t := range r.tokens {
		copied := *t
		snapTokens[id] = &copied
	}
	if err := fn(r); err != nil {
		r.wallets = snapWallets
		r.transactions = snapTx
		r.tokens = snapTokens
		return err
	}
	return nil
}

// pendingTransfer seeds a suspended wallet-to-wallet transfer of amount
// from wallet 1 (user 1) to wallet 2 (user 2) with its bound token.
func pendingTransfer(repo *memRepo, senderBalance, amount decimal.Decimal, issuedAt time.Time) *models.VerificationToken {
	w1, w2 := uint(1), uint(2)
	repo.users[1] = &models.User{ID: 1, Email: "alice@example.com", DefaultWalletID: &w1}
	repo.users[2] = &models.User{ID: 2, Email: "bob@example.com", DefaultWalletID: &w2}
	repo.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Name: "Main", Balance: senderBalance}
	repo.wallets[2] = &models.Wallet{ID: 2, UserID: 2, Name: "Main", Balance: decimal.Zero}

	record := &models.Transaction{
		Reference:       "ref-1",
		Type:            models.TransactionTypeWalletToWallet,
		Status:          models.TransactionStatusPending,
		SenderUserID:    1,
		RecipientUserID: 2,
		SenderKind:      models.MethodWallet,
		SenderMethodID:  1,
		RecipientKind:   models.MethodWallet,
		RecipientID:     2,
		Amount:          amount,
	}
	_ = repo.CreateTransaction(record)

	token := &models.VerificationToken{
		TransactionID: record.ID,
		Token:         "tok-1",
		CreatedAt:     issuedAt,
	}
	_ = repo.CreateToken(token)
	return token
}

type discardIssuer struct{}

func (discardIssuer) IssueInTransaction(repo repositories.LedgerRepository, tx *models.Transaction) (*models.VerificationToken, error) {
	return &models.VerificationToken{TransactionID: tx.ID}, nil
}
func (discardIssuer) Deliver(context.Context, *models.VerificationToken, *models.Transaction) {}

type recordingCache struct {
	invalidated []uint
}

func (c *recordingCache) InvalidateWallet(_ context.Context, walletID uint) error {
	c.invalidated = append(c.invalidated, walletID)
	return nil
}

func newWorkflow(repo *memRepo, at time.Time) Service {
	finalizer := ledger.NewService(repo, nil, discardIssuer{}, ledger.Config{}, nil)
	svc := NewService(repo, finalizer, Config{TokenValidity: 24 * time.Hour})
	svc.(*service).now = func() time.Time { return at }
	return svc
}

func TestRedeem_FinalizesPendingTransfer(t *testing.T) {
	repo := newMemRepo()
	issued := time.Now()
	token := pendingTransfer(repo, decimal.NewFromInt(5000), decimal.NewFromInt(3000), issued)
	svc := newWorkflow(repo, issued.Add(time.Hour))

	record, err := svc.Redeem(context.Background(), token.Token)

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFinalized, record.Status)
	assert.True(t, repo.wallets[1].Balance.Equal(decimal.NewFromInt(2000)))
	assert.True(t, repo.wallets[2].Balance.Equal(decimal.NewFromInt(3000)))
	assert.True(t, repo.tokens[token.ID].Consumed)
}

func TestRedeem_InvalidatesWalletCache(t *testing.T) {
	repo := newMemRepo()
	issued := time.Now()
	token := pendingTransfer(repo, decimal.NewFromInt(5000), decimal.NewFromInt(3000), issued)

	cache := &recordingCache{}
	finalizer := ledger.NewService(repo, cache, discardIssuer{}, ledger.Config{}, nil)
	svc := NewService(repo, finalizer, Config{TokenValidity: 24 * time.Hour})
	svc.(*service).now = func() time.Time { return issued.Add(time.Hour) }

	_, err := svc.Redeem(context.Background(), token.Token)

	// Both wallets moved, so both cached copies must be dropped.
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, cache.invalidated)
}

func TestRedeem_SecondAttemptFails(t *testing.T) {
	repo := newMemRepo()
	issued := time.Now()
	token := pendingTransfer(repo, decimal.NewFromInt(5000), decimal.NewFromInt(3000), issued)
	svc := newWorkflow(repo, issued.Add(time.Hour))

	_, err := svc.Redeem(context.Background(), token.Token)
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), token.Token)
	assert.True(t, errors.Is(err, errs.ErrInvalidToken))

	// The first redemption's effect stands, applied exactly once.
	assert.True(t, repo.wallets[1].Balance.Equal(decimal.NewFromInt(2000)))
	assert.True(t, repo.wallets[2].Balance.Equal(decimal.NewFromInt(3000)))
}

func TestRedeem_UnknownToken(t *testing.T) {
	repo := newMemRepo()
	pendingTransfer(repo, decimal.NewFromInt(5000), decimal.NewFromInt(3000), time.Now())
	svc := newWorkflow(repo, time.Now())

	_, err := svc.Redeem(context.Background(), "no-such-token")
	assert.True(t, errors.Is(err, errs.ErrInvalidToken))
}

func TestRedeem_ExpiredTokenIsTerminal(t *testing.T) {
	repo := newMemRepo()
	issued := time.Now()
	token := pendingTransfer(repo, decimal.NewFromInt(5000), decimal.NewFromInt(3000), issued)
	svc := newWorkflow(repo, issued.Add(25*time.Hour))

	_, err := svc.Redeem(context.Background(), token.Token)
	assert.True(t, errors.Is(err, errs.ErrTokenExpired))

	// The transfer is expired, never applied, and stays that way.
	assert.Equal(t, models.TransactionStatusExpired, repo.transactions[token.TransactionID].Status)
	assert.True(t, repo.wallets[1].Balance.Equal(decimal.NewFromInt(5000)))
	assert.True(t, repo.wallets[2].Balance.Equal(decimal.Zero))

	_, err = svc.Redeem(context.Background(), token.Token)
	assert.True(t, errors.Is(err, errs.ErrInvalidToken))
}

func TestRedeem_RejectsWhenBalanceDrifted(t *testing.T) {
	repo := newMemRepo()
	issued := time.Now()
	token := pendingTransfer(repo, decimal.NewFromInt(5000), decimal.NewFromInt(3000), issued)
	svc := newWorkflow(repo, issued.Add(time.Hour))

	// The sender spent the money elsewhere while the transfer waited.
	require.NoError(t, repo.UpdateWalletBalance(1, decimal.NewFromInt(100)))

	_, err := svc.Redeem(context.Background(), token.Token)
	assert.True(t, errors.Is(err, errs.ErrInsufficientFunds))

	assert.Equal(t, models.TransactionStatusRejected, repo.transactions[token.TransactionID].Status)
	assert.True(t, repo.wallets[1].Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, repo.wallets[2].Balance.Equal(decimal.Zero))

	// Rejection consumed the token; it cannot be retried.
	_, err = svc.Redeem(context.Background(), token.Token)
	assert.True(t, errors.Is(err, errs.ErrInvalidToken))
}

func TestSweepExpired_ExpiresStalePendingTransfers(t *testing.T) {
	repo := newMemRepo()
	issued := time.Now().Add(-48 * time.Hour)
	token := pendingTransfer(repo, decimal.NewFromInt(5000), decimal.NewFromInt(3000), issued)
	svc := newWorkflow(repo, time.Now())

	svc.(*service).sweepExpired()

	assert.Equal(t, models.TransactionStatusExpired, repo.transactions[token.TransactionID].Status)
	assert.True(t, repo.tokens[token.ID].Consumed)
	assert.True(t, repo.wallets[1].Balance.Equal(decimal.NewFromInt(5000)))
}
