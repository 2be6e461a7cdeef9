package models

import "time"

// Ticket is the proof of purchase for one seat of an event. TokenID is the
// on-chain NFT token id the ticket is minted under.
type Ticket struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID      uint      `json:"eventId" gorm:"index;not null"`
	UserID       string    `json:"userId" gorm:"type:varchar(36);index;not null"`
	TokenID      int       `json:"tokenId" gorm:"not null"`
	PurchaseDate time.Time `json:"purchaseDate" gorm:"not null"`
}
