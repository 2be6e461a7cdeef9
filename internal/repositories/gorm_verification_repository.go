package repositories

import (
	"errors"
	"fmt"
	"time"

	"nftickets/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GORMVerificationCodeRepository is a GORM implementation of VerificationCodeRepository.
type GORMVerificationCodeRepository struct {
	db *gorm.DB
}

// NewGORMVerificationCodeRepository creates a new GORMVerificationCodeRepository.
func NewGORMVerificationCodeRepository(db *gorm.DB) *GORMVerificationCodeRepository {
	return &GORMVerificationCodeRepository{db: db}
}

// Create inserts a new code.
func (r *GORMVerificationCodeRepository) Create(code *models.VerificationCode) error {
	if code.CodeHash == "" {
		return fmt.Errorf("%w: verification code hash is required", ErrValidation)
	}
	code.ID = 0
	if err := r.db.Create(code).Error; err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}
	return nil
}

// ConsumeValid marks the newest matching code as used. The flag is flipped
// with a conditional UPDATE so two racing attempts cannot both succeed.
func (r *GORMVerificationCodeRepository) ConsumeValid(email, code string, at time.Time) (*models.VerificationCode, error) {
	var consumed models.VerificationCode
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var candidates []models.VerificationCode
		if err := tx.Where("email = ? AND used = ?", email, false).Order("id desc").Find(&candidates).Error; err != nil {
			return fmt.Errorf("failed to look up verification codes: %w", err)
		}
		for _, c := range candidates {
			if c.Expired(at) {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)) != nil {
				continue
			}
			res := tx.Model(&models.VerificationCode{}).
				Where("id = ? AND used = ?", c.ID, false).
				Update("used", true)
			if res.Error != nil {
				return fmt.Errorf("failed to consume verification code %d: %w", c.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrInvalidCode
			}
			c.Used = true
			consumed = c
			return nil
		}
		return ErrInvalidCode
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	return &consumed, nil
}
