package models

import "time"

// VerificationCode is a one-time numeric code bound to an email address.
// Only the bcrypt hash of the code is persisted; Code is populated on the
// value returned at creation so it can be delivered to the user.
type VerificationCode struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"type:varchar(255);index;not null"`
	Code      string    `json:"-" gorm:"-"`
	CodeHash  string    `json:"-" gorm:"type:varchar(72);not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index;not null"`
	Used      bool      `json:"used" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (v *VerificationCode) Expired(at time.Time) bool {
	return !at.Before(v.ExpiresAt)
}
