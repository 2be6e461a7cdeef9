package models

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID        string  `json:"id"`
	Email         string  `json:"email"`
	IsArtist      bool    `json:"isArtist"`
	WalletAddress *string `json:"walletAddress,omitempty"`
}
