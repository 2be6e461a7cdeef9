package repositories

import (
	"fmt"
	"sync"
	"time"

	"nftickets/internal/models"

	"github.com/google/uuid"
)

// MemoryInventoryRepository is an in-memory implementation of InventoryRepository.
// All mutations run under a single write lock, which makes CreateTicket's
// check-and-decrement atomic.
type MemoryInventoryRepository struct {
	mu sync.RWMutex

	users        map[string]models.User
	userByEmail  map[string]string
	events       map[uint]models.Event
	eventOrder   []uint
	tickets      []models.Ticket
	nextEventID  uint
	nextTicketID uint
}

// NewMemoryInventoryRepository creates a new, empty MemoryInventoryRepository.
func NewMemoryInventoryRepository() *MemoryInventoryRepository {
	return &MemoryInventoryRepository{
		users:        make(map[string]models.User),
		userByEmail:  make(map[string]string),
		events:       make(map[uint]models.Event),
		nextEventID:  1,
		nextTicketID: 1,
	}
}

// CreateUser adds a new user. The email must not be registered yet.
func (r *MemoryInventoryRepository) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.userByEmail[user.Email]; ok {
		return fmt.Errorf("email '%s' already registered: %w", user.Email, ErrConflict)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("user with ID %s already exists: %w", user.ID, ErrConflict)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = *user
	r.userByEmail[user.Email] = user.ID
	return nil
}

// GetUserByID returns a user by its ID.
func (r *MemoryInventoryRepository) GetUserByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

// GetUserByEmail returns a user by email.
func (r *MemoryInventoryRepository) GetUserByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.userByEmail[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	user := r.users[id]
	return &user, nil
}

// UpdateUserWallet attaches a wallet address to a user.
func (r *MemoryInventoryRepository) UpdateUserWallet(userID, walletAddress string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user with ID %s not found for wallet update: %w", userID, ErrNotFound)
	}
	addr := walletAddress
	user.WalletAddress = &addr
	r.users[userID] = user
	return &user, nil
}

// CreateEvent validates and adds a new event, assigning the next sequential ID.
func (r *MemoryInventoryRepository) CreateEvent(event *models.Event) error {
	if err := prepareEvent(event); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = r.nextEventID
	r.nextEventID++
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	r.events[event.ID] = *event
	r.eventOrder = append(r.eventOrder, event.ID)
	return nil
}

// GetEvent returns an event by its ID.
func (r *MemoryInventoryRepository) GetEvent(id uint) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, fmt.Errorf("event with ID %d: %w", id, ErrNotFound)
	}
	return &event, nil
}

// GetEvents returns all events in creation order.
func (r *MemoryInventoryRepository) GetEvents() ([]models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]models.Event, 0, len(r.eventOrder))
	for _, id := range r.eventOrder {
		events = append(events, r.events[id])
	}
	return events, nil
}

// GetArtistEvents returns the events created by one artist, in creation order.
func (r *MemoryInventoryRepository) GetArtistEvents(artistID string) ([]models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]models.Event, 0)
	for _, id := range r.eventOrder {
		if e := r.events[id]; e.ArtistID == artistID {
			events = append(events, e)
		}
	}
	return events, nil
}

// SetEventContract records the deployed contract address of an event. The
// address can only be set once.
func (r *MemoryInventoryRepository) SetEventContract(eventID uint, contractAddress string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event with ID %d: %w", eventID, ErrNotFound)
	}
	if event.ContractAddress != nil {
		return nil, fmt.Errorf("event %d already has contract %s: %w", eventID, *event.ContractAddress, ErrConflict)
	}
	addr := contractAddress
	event.ContractAddress = &addr
	r.events[eventID] = event
	return &event, nil
}

// CreateTicket issues a ticket for ticket.EventID, decrementing the event's
// remaining supply and assigning the token id under the same lock.
func (r *MemoryInventoryRepository) CreateTicket(ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[ticket.EventID]
	if !ok {
		return fmt.Errorf("event with ID %d: %w", ticket.EventID, ErrNotFound)
	}
	if event.SoldOut() {
		return fmt.Errorf("event with ID %d: %w", ticket.EventID, ErrSoldOut)
	}

	ticket.TokenID = event.NextTokenID()
	event.RemainingSupply--
	r.events[event.ID] = event

	ticket.ID = r.nextTicketID
	r.nextTicketID++
	if ticket.PurchaseDate.IsZero() {
		ticket.PurchaseDate = time.Now().UTC()
	}
	r.tickets = append(r.tickets, *ticket)
	return nil
}

// GetUserTickets returns the tickets owned by a user.
func (r *MemoryInventoryRepository) GetUserTickets(userID string) ([]models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tickets := make([]models.Ticket, 0)
	for _, t := range r.tickets {
		if t.UserID == userID {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

// GetEventTickets returns the tickets issued for an event.
func (r *MemoryInventoryRepository) GetEventTickets(eventID uint) ([]models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tickets := make([]models.Ticket, 0)
	for _, t := range r.tickets {
		if t.EventID == eventID {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}
