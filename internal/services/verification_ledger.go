package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"nftickets/internal/metrics"
	"nftickets/internal/models"
	"nftickets/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// CodeTTL is how long a verification code stays valid.
const CodeTTL = 10 * time.Minute

const (
	codeMin   = 100000
	codeRange = 900000
	codeLen   = 6
)

// VerificationLedger issues and redeems one-time email verification codes.
type VerificationLedger struct {
	repo       repositories.VerificationCodeRepository
	bcryptCost int
	now        func() time.Time
}

// NewVerificationLedger creates a ledger over repo. Codes are hashed with
// bcryptCost; values below bcrypt.MinCost fall back to bcrypt.DefaultCost.
func NewVerificationLedger(repo repositories.VerificationCodeRepository, bcryptCost int) *VerificationLedger {
	return &VerificationLedger{
		repo:       repo,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the ledger's time source.
func (l *VerificationLedger) WithClock(now func() time.Time) *VerificationLedger {
	l.now = now
	return l
}

// CreateVerificationCode generates a fresh code for email and stores its hash.
// The plaintext is only available on the returned value.
func (l *VerificationLedger) CreateVerificationCode(email string) (*models.VerificationCode, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", repositories.ErrValidation)
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), l.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash verification code: %w", err)
	}

	now := l.now()
	vc := &models.VerificationCode{
		Email:     email,
		Code:      code,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(CodeTTL),
		CreatedAt: now,
	}
	if err := l.repo.Create(vc); err != nil {
		return nil, fmt.Errorf("failed to store verification code: %w", err)
	}
	metrics.VerificationCode(metrics.CodeIssued)
	return vc, nil
}

// ValidateAndConsume redeems code for email. It fails with ErrInvalidCode
// when no unused, unexpired code matches.
func (l *VerificationLedger) ValidateAndConsume(email, code string) (*models.VerificationCode, error) {
	if email == "" || !wellFormedCode(code) {
		metrics.VerificationCode(metrics.CodeRejected)
		return nil, repositories.ErrInvalidCode
	}

	vc, err := l.repo.ConsumeValid(email, code, l.now())
	if err != nil {
		metrics.VerificationCode(metrics.CodeRejected)
		return nil, err
	}
	metrics.VerificationCode(metrics.CodeVerified)
	return vc, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}

func wellFormedCode(code string) bool {
	if len(code) != codeLen {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
