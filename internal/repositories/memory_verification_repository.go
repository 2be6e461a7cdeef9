package repositories

import (
	"fmt"
	"sync"
	"time"

	"nftickets/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// MemoryVerificationCodeRepository is an in-memory implementation of
// VerificationCodeRepository.
type MemoryVerificationCodeRepository struct {
	mu     sync.Mutex
	codes  []models.VerificationCode
	nextID uint
}

// NewMemoryVerificationCodeRepository creates a new MemoryVerificationCodeRepository.
func NewMemoryVerificationCodeRepository() *MemoryVerificationCodeRepository {
	return &MemoryVerificationCodeRepository{nextID: 1}
}

// Create stores a new code.
func (r *MemoryVerificationCodeRepository) Create(code *models.VerificationCode) error {
	if code.CodeHash == "" {
		return fmt.Errorf("%w: verification code hash is required", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	code.ID = r.nextID
	r.nextID++
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	stored := *code
	stored.Code = ""
	r.codes = append(r.codes, stored)
	return nil
}

// ConsumeValid marks the newest matching code as used.
func (r *MemoryVerificationCodeRepository) ConsumeValid(email, code string, at time.Time) (*models.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.codes) - 1; i >= 0; i-- {
		c := &r.codes[i]
		if c.Email != email || c.Used || c.Expired(at) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)) != nil {
			continue
		}
		c.Used = true
		consumed := *c
		return &consumed, nil
	}
	return nil, ErrInvalidCode
}
