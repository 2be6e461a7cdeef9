package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultChainID is the Base mainnet chain id, used when an event does not name one.
const DefaultChainID = 8453

// Event represents a ticketed occasion created by an artist.
type Event struct {
	ID              uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string          `json:"title" gorm:"type:varchar(200);not null"`
	Description     string          `json:"description" gorm:"type:text;not null"`
	ImageURL        string          `json:"imageUrl" gorm:"type:text;not null"`
	Date            time.Time       `json:"date" gorm:"not null"`
	Venue           string          `json:"venue" gorm:"type:varchar(200);not null"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(30,18);not null"`
	TotalSupply     int             `json:"totalSupply" gorm:"not null"`
	RemainingSupply int             `json:"remainingSupply" gorm:"not null"`
	ArtistID        string          `json:"artistId" gorm:"type:varchar(36);index;not null"`
	ContractAddress *string         `json:"contractAddress" gorm:"type:varchar(64)"`
	ChainID         int64           `json:"chainId" gorm:"not null"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// SoldOut reports whether no tickets remain.
func (e *Event) SoldOut() bool {
	return e.RemainingSupply <= 0
}

// NextTokenID is the token id the next issued ticket receives.
func (e *Event) NextTokenID() int {
	return e.TotalSupply - e.RemainingSupply + 1
}
