package models

// MethodKind discriminates the payment method variants.
type MethodKind string

const (
	MethodWallet MethodKind = "wallet"
	MethodCard   MethodKind = "card"
)

// PaymentMethod is an addressable account money can move between.
// Wallets carry an internal balance; cards are external funding or
// drain endpoints with no balance tracked here.
type PaymentMethod interface {
	MethodID() uint
	MethodKind() MethodKind
	OwnerID() uint
}
