package services_test

import (
	"nftickets/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockInventoryRepository is a mock implementation of repositories.InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockInventoryRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockInventoryRepository) UpdateUserWallet(userID, walletAddress string) (*models.User, error) {
	args := m.Called(userID, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockInventoryRepository) CreateEvent(event *models.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetEvent(id uint) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockInventoryRepository) GetEvents() ([]models.Event, error) {
	args := m.Called()
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockInventoryRepository) GetArtistEvents(artistID string) ([]models.Event, error) {
	args := m.Called(artistID)
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockInventoryRepository) SetEventContract(eventID uint, contractAddress string) (*models.Event, error) {
	args := m.Called(eventID, contractAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockInventoryRepository) CreateTicket(ticket *models.Ticket) error {
	args := m.Called(ticket)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetUserTickets(userID string) ([]models.Ticket, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockInventoryRepository) GetEventTickets(eventID uint) ([]models.Ticket, error) {
	args := m.Called(eventID)
	return args.Get(0).([]models.Ticket), args.Error(1)
}

// MockPublisher is a mock implementation of services.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(queue, messageType string, payload interface{}) error {
	args := m.Called(queue, messageType, payload)
	return args.Error(0)
}

func artist(id string) *models.Identity {
	return &models.Identity{UserID: id, Email: id + "@example.com", IsArtist: true}
}

func fan(id string) *models.Identity {
	return &models.Identity{UserID: id, Email: id + "@example.com"}
}
