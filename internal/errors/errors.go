// Package errors defines the domain error taxonomy shared by services
// and handlers. Callers branch on the error value or its Code, never on
// message text.
package errors

import "errors"

// DomainError is a typed failure with a stable machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// Is lets errors.Is match two DomainErrors by code.
func (e *DomainError) Is(target error) bool {
	var d *DomainError
	if !errors.As(target, &d) {
		return false
	}
	return e.Code == d.Code
}

// CodeOf extracts the domain code from an error chain, or "" when the
// error is not a DomainError.
func CodeOf(err error) string {
	var d *DomainError
	if errors.As(err, &d) {
		return d.Code
	}
	return ""
}
