package ledger

import (
	"errors"
	"fmt"
	"testing"

	errs "payva/internal/errors"
	"payva/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateTransfer_Ordering(t *testing.T) {
	owner := &models.User{ID: 1}
	stranger := &models.User{ID: 2}
	senderWallet := &models.Wallet{ID: 1, UserID: 1, Balance: decimal.NewFromInt(100)}
	recipientWallet := &models.Wallet{ID: 2, UserID: 2, Balance: decimal.Zero}

	tests := []struct {
		name      string
		user      *models.User
		sender    models.PaymentMethod
		recipient models.PaymentMethod
		amount    decimal.Decimal
		wantErr   *errs.DomainError
	}{
		{
			name: "valid transfer",
			user: owner, sender: senderWallet, recipient: recipientWallet,
			amount: decimal.NewFromInt(50),
		},
		{
			name: "exact balance is allowed",
			user: owner, sender: senderWallet, recipient: recipientWallet,
			amount: decimal.NewFromInt(100),
		},
		{
			// The amount check precedes ownership: a stranger sending a
			// negative amount sees INVALID_AMOUNT, not UNAUTHORIZED.
			name: "amount checked before ownership",
			user: stranger, sender: senderWallet, recipient: recipientWallet,
			amount: decimal.NewFromInt(-1), wantErr: errs.ErrInvalidAmount,
		},
		{
			name: "ownership checked before identity",
			user: stranger, sender: senderWallet, recipient: senderWallet,
			amount: decimal.NewFromInt(1), wantErr: errs.ErrUnauthorizedOperation,
		},
		{
			name: "identity checked before funds",
			user: owner, sender: senderWallet, recipient: senderWallet,
			amount: decimal.NewFromInt(500), wantErr: errs.ErrInvalidOperation,
		},
		{
			name: "insufficient funds last",
			user: owner, sender: senderWallet, recipient: recipientWallet,
			amount: decimal.NewFromInt(101), wantErr: errs.ErrInsufficientFunds,
		},
		{
			name: "card sender has no balance check",
			user: owner,
			sender: &models.Card{ID: 9, UserID: 1},
			recipient: recipientWallet,
			amount: decimal.NewFromInt(1000000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransfer(tt.user, tt.sender, tt.recipient, tt.amount)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransferType(t *testing.T) {
	tests := []struct {
		sender, recipient models.MethodKind
		want              string
		wantErr           bool
	}{
		{models.MethodWallet, models.MethodWallet, models.TransactionTypeWalletToWallet, false},
		{models.MethodCard, models.MethodWallet, models.TransactionTypeCardToWallet, false},
		{models.MethodWallet, models.MethodCard, models.TransactionTypeWalletToCard, false},
		{models.MethodCard, models.MethodCard, "", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.sender, tt.recipient), func(t *testing.T) {
			got, err := transferType(tt.sender, tt.recipient)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errs.ErrInvalidOperation))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(errs.ErrInvalidAmount))
	assert.True(t, IsValidationError(errs.ErrUnauthorizedOperation))
	assert.True(t, IsValidationError(errs.ErrInsufficientFunds))
	assert.True(t, IsValidationError(errs.ErrInvalidOperation))

	assert.False(t, IsValidationError(errs.ErrPersistenceFailure))
	assert.False(t, IsValidationError(errs.ErrInvalidToken))
	assert.False(t, IsValidationError(errors.New("plain error")))
	assert.False(t, IsValidationError(nil))
}
