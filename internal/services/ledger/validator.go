package ledger

import (
	errs "payva/internal/errors"
	"payva/internal/models"

	"github.com/shopspring/decimal"
)

// ValidateTransfer runs the ordered pre-flight checks on a proposed
// transfer. It is pure: it reads the entities it is given and returns
// the first failing check, mutating nothing, so callers may re-run it
// at any point (the verification workflow does, at redemption time).
func ValidateTransfer(actingUser *models.User, sender, recipient models.PaymentMethod, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return errs.ErrInvalidAmount
	}
	if !OwnsPaymentMethod(actingUser, sender) {
		return errs.ErrUnauthorizedOperation
	}
	if sender.MethodKind() == recipient.MethodKind() && sender.MethodID() == recipient.MethodID() {
		return errs.ErrInvalidOperation
	}
	// Cards have no balance check; external funding is assumed
	// sufficient and real card authorization is outside this engine.
	if wallet, ok := sender.(*models.Wallet); ok {
		if wallet.Balance.LessThan(amount) {
			return errs.ErrInsufficientFunds
		}
	}
	return nil
}

// transferType derives the transaction type from the method pair. A
// card-to-card movement has no wallet side and is structurally invalid.
func transferType(sender, recipient models.MethodKind) (string, error) {
	switch {
	case sender == models.MethodWallet && recipient == models.MethodWallet:
		return models.TransactionTypeWalletToWallet, nil
	case sender == models.MethodCard && recipient == models.MethodWallet:
		return models.TransactionTypeCardToWallet, nil
	case sender == models.MethodWallet && recipient == models.MethodCard:
		return models.TransactionTypeWalletToCard, nil
	default:
		return "", errs.ErrInvalidOperation
	}
}

// IsValidationError reports whether err is one of the pre-mutation
// validation failures, as opposed to a persistence fault.
func IsValidationError(err error) bool {
	switch errs.CodeOf(err) {
	case errs.ErrInvalidAmount.Code,
		errs.ErrUnauthorizedOperation.Code,
		errs.ErrInsufficientFunds.Code,
		errs.ErrInvalidOperation.Code:
		return true
	}
	return false
}
