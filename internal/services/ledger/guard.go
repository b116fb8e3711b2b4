package ledger

import "payva/internal/models"

// Ownership predicates. Every write path checks the relevant predicate
// before touching state; a failed check short-circuits with
// UnauthorizedOperation and performs no side effect.

// OwnsPaymentMethod reports whether user owns the given payment method.
func OwnsPaymentMethod(user *models.User, method models.PaymentMethod) bool {
	if user == nil || method == nil {
		return false
	}
	return method.OwnerID() == user.ID
}

// OwnsCategory reports whether user owns the given category.
func OwnsCategory(user *models.User, category *models.Category) bool {
	if user == nil || category == nil {
		return false
	}
	return category.UserID == user.ID
}

// IsEmployee reports whether user holds the privileged employee role.
// Employees may read across users for administrative flows; they never
// gain write access to another user's balances.
func IsEmployee(user *models.User) bool {
	return user != nil && user.IsEmployee()
}
