package ledger

import "github.com/shopspring/decimal"

const DefaultCurrency = "USD"

// DefaultLargeTransactionThreshold is the amount at which transfers
// start requiring verification before funds move.
var DefaultLargeTransactionThreshold = decimal.NewFromInt(5000)
