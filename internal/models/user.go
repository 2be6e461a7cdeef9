package models

import "time"

// User represents an account. Users are created on their first successful
// email verification and are never deleted.
type User struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email         string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	IsArtist      bool      `json:"isArtist" gorm:"not null;default:false"`
	WalletAddress *string   `json:"walletAddress" gorm:"type:varchar(64)"`
	CreatedAt     time.Time `json:"createdAt"`
}
