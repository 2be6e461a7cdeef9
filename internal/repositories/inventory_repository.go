package repositories

import (
	"fmt"

	"nftickets/internal/models"
)

// InventoryRepository defines the data access for users, events and tickets.
//
// CreateTicket must check the event's remaining supply, decrement it and
// assign the ticket's token id as one atomic step.
type InventoryRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUserWallet(userID, walletAddress string) (*models.User, error)

	CreateEvent(event *models.Event) error
	GetEvent(id uint) (*models.Event, error)
	GetEvents() ([]models.Event, error)
	GetArtistEvents(artistID string) ([]models.Event, error)
	SetEventContract(eventID uint, contractAddress string) (*models.Event, error)

	CreateTicket(ticket *models.Ticket) error
	GetUserTickets(userID string) ([]models.Ticket, error)
	GetEventTickets(eventID uint) ([]models.Ticket, error)
}

// prepareEvent validates a new event and fills the supply and chain defaults.
// A zero RemainingSupply means the caller did not supply one.
func prepareEvent(event *models.Event) error {
	if event.TotalSupply < 1 {
		return fmt.Errorf("%w: totalSupply must be at least 1, got %d", ErrValidation, event.TotalSupply)
	}
	if event.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative, got %s", ErrValidation, event.Price.String())
	}
	if event.RemainingSupply == 0 {
		event.RemainingSupply = event.TotalSupply
	}
	if event.RemainingSupply < 0 || event.RemainingSupply > event.TotalSupply {
		return fmt.Errorf("%w: remainingSupply must be between 0 and %d, got %d", ErrValidation, event.TotalSupply, event.RemainingSupply)
	}
	if event.ChainID == 0 {
		event.ChainID = models.DefaultChainID
	}
	return nil
}
