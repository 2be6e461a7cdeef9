package repositories

import (
	"time"

	"nftickets/internal/models"
)

// VerificationCodeRepository stores verification codes. Codes are never
// deleted; used and expired codes stay behind for auditing.
type VerificationCodeRepository interface {
	Create(code *models.VerificationCode) error

	// ConsumeValid finds an unused code for email that has not expired at
	// the given instant and whose hash matches code, and marks it used in
	// the same atomic step. It returns ErrInvalidCode when none matches.
	ConsumeValid(email, code string, at time.Time) (*models.VerificationCode, error)
}
