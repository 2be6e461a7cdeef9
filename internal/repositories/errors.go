// Package repositories holds the inventory and verification-code stores.
//
// The sentinel errors below are shared by every layer above the stores.
// Callers wrap them with fmt.Errorf("...: %w", err) and the HTTP layer
// translates them into status codes with errors.Is.
package repositories

import "errors"

var (
	// ErrNotFound is returned when a referenced user, event or ticket does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with existing state,
	// such as a duplicate email or a contract address that is already set.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned for malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrSoldOut is returned when a ticket is requested for an event with
	// no remaining supply.
	ErrSoldOut = errors.New("event sold out")

	// ErrInvalidCode is returned when no unused, unexpired verification code
	// matches the given email and code.
	ErrInvalidCode = errors.New("invalid or expired code")

	// ErrUnauthenticated is returned when an identity-scoped operation is
	// attempted without an identity.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the caller lacks the capability the
	// operation needs.
	ErrForbidden = errors.New("forbidden")
)
