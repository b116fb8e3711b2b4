package ledger

import (
	"payva/internal/models"

	"github.com/shopspring/decimal"
)

// TransferRequest is a proposed movement of money between two payment
// methods. The recipient is addressed either directly by method id or,
// for cross-user transfers, by the recipient user whose default wallet
// receives the funds.
type TransferRequest struct {
	SenderKind      models.MethodKind
	SenderID        uint
	RecipientKind   models.MethodKind
	RecipientID     uint
	RecipientUserID uint
	Amount          decimal.Decimal
	Description     string
	CategoryID      *uint
}

// Receipt is the outcome of an executed transfer. Pending receipts mean
// the transfer awaits verification and no balance has moved yet.
type Receipt struct {
	Transaction *models.Transaction
	Pending     bool
}

// Config holds the engine's tuning knobs.
type Config struct {
	// Transfers at or above this amount are suspended for verification
	// instead of committing immediately.
	LargeTransactionThreshold decimal.Decimal
	DefaultCurrency           string
}
