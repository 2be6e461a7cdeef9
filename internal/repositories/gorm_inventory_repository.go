package repositories

import (
	"errors"
	"fmt"
	"time"

	"nftickets/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMInventoryRepository is a GORM implementation of InventoryRepository.
type GORMInventoryRepository struct {
	db *gorm.DB
}

// NewGORMInventoryRepository creates a new instance of GORMInventoryRepository.
func NewGORMInventoryRepository(db *gorm.DB) *GORMInventoryRepository {
	return &GORMInventoryRepository{
		db: db,
	}
}

// CreateUser creates a new user in the database.
func (r *GORMInventoryRepository) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email '%s' already registered: %w", user.Email, ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *GORMInventoryRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email.
func (r *GORMInventoryRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// UpdateUserWallet attaches a wallet address to a user.
func (r *GORMInventoryRepository) UpdateUserWallet(userID, walletAddress string) (*models.User, error) {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("wallet_address", walletAddress)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update wallet for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("user with ID %s not found for wallet update: %w", userID, ErrNotFound)
	}
	return r.GetUserByID(userID)
}

// CreateEvent validates and inserts a new event.
func (r *GORMInventoryRepository) CreateEvent(event *models.Event) error {
	if err := prepareEvent(event); err != nil {
		return err
	}
	event.ID = 0
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvent retrieves a single event by its ID.
func (r *GORMInventoryRepository) GetEvent(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event by ID %d: %w", id, err)
	}
	return &event, nil
}

// GetEvents retrieves all events in creation order.
func (r *GORMInventoryRepository) GetEvents() ([]models.Event, error) {
	events := make([]models.Event, 0)
	if err := r.db.Order("id asc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}
	return events, nil
}

// GetArtistEvents retrieves the events created by one artist.
func (r *GORMInventoryRepository) GetArtistEvents(artistID string) ([]models.Event, error) {
	events := make([]models.Event, 0)
	if err := r.db.Where("artist_id = ?", artistID).Order("id asc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to get events of artist %s: %w", artistID, err)
	}
	return events, nil
}

// SetEventContract records the contract address of an event that has none yet.
func (r *GORMInventoryRepository) SetEventContract(eventID uint, contractAddress string) (*models.Event, error) {
	res := r.db.Model(&models.Event{}).
		Where("id = ? AND contract_address IS NULL", eventID).
		Update("contract_address", contractAddress)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to set contract for event %d: %w", eventID, res.Error)
	}
	event, err := r.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("event %d already has a contract address: %w", eventID, ErrConflict)
	}
	return event, nil
}

// CreateTicket reserves one unit of supply and inserts the ticket inside a
// single transaction. The conditional UPDATE is the compare-and-swap that
// keeps concurrent purchases from overselling.
func (r *GORMInventoryRepository) CreateTicket(ticket *models.Ticket) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Event{}).
			Where("id = ? AND remaining_supply > 0", ticket.EventID).
			UpdateColumn("remaining_supply", gorm.Expr("remaining_supply - ?", 1))
		if res.Error != nil {
			return fmt.Errorf("failed to reserve ticket for event %d: %w", ticket.EventID, res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Event{}).Where("id = ?", ticket.EventID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to look up event %d: %w", ticket.EventID, err)
			}
			if count == 0 {
				return fmt.Errorf("event with ID %d: %w", ticket.EventID, ErrNotFound)
			}
			return fmt.Errorf("event with ID %d: %w", ticket.EventID, ErrSoldOut)
		}

		var event models.Event
		if err := tx.First(&event, ticket.EventID).Error; err != nil {
			return fmt.Errorf("failed to reload event %d: %w", ticket.EventID, err)
		}
		// RemainingSupply already reflects this ticket.
		ticket.TokenID = event.TotalSupply - event.RemainingSupply
		ticket.ID = 0
		if ticket.PurchaseDate.IsZero() {
			ticket.PurchaseDate = time.Now().UTC()
		}
		if err := tx.Create(ticket).Error; err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		return nil
	})
}

// GetUserTickets retrieves the tickets owned by a user.
func (r *GORMInventoryRepository) GetUserTickets(userID string) ([]models.Ticket, error) {
	tickets := make([]models.Ticket, 0)
	if err := r.db.Where("user_id = ?", userID).Order("id asc").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to get tickets of user %s: %w", userID, err)
	}
	return tickets, nil
}

// GetEventTickets retrieves the tickets issued for an event.
func (r *GORMInventoryRepository) GetEventTickets(eventID uint) ([]models.Ticket, error) {
	tickets := make([]models.Ticket, 0)
	if err := r.db.Where("event_id = ?", eventID).Order("id asc").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to get tickets of event %d: %w", eventID, err)
	}
	return tickets, nil
}
