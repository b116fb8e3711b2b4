package errors

var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be positive",
	}
	ErrUnauthorizedOperation = &DomainError{
		Code:    "UNAUTHORIZED_OPERATION",
		Message: "you do not own this resource",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient wallet balance",
	}
	ErrInvalidOperation = &DomainError{
		Code:    "INVALID_OPERATION",
		Message: "structurally invalid request",
	}
	ErrDuplicateEntity = &DomainError{
		Code:    "DUPLICATE_ENTITY",
		Message: "an entity with the same name already exists",
	}
	ErrInvalidToken = &DomainError{
		Code:    "INVALID_TOKEN",
		Message: "unknown or already consumed verification token",
	}
	ErrTokenExpired = &DomainError{
		Code:    "TOKEN_EXPIRED",
		Message: "verification token past its validity window",
	}
	ErrPersistenceFailure = &DomainError{
		Code:    "PERSISTENCE_FAILURE",
		Message: "store unavailable or write conflict, retry may succeed",
	}
)
