package services

import (
	"errors"
	"fmt"

	"nftickets/internal/messages"
	"nftickets/internal/metrics"
	"nftickets/internal/models"
	"nftickets/internal/policy"
	"nftickets/internal/repositories"
	"nftickets/pkg/logger"
)

// EventService handles business logic for events.
type EventService struct {
	repo           repositories.InventoryRepository
	publisher      Publisher
	log            *logger.Logger
	defaultChainID int64
}

// NewEventService creates a new EventService.
func NewEventService(repo repositories.InventoryRepository, publisher Publisher, log *logger.Logger, defaultChainID int64) *EventService {
	if defaultChainID == 0 {
		defaultChainID = models.DefaultChainID
	}
	return &EventService{
		repo:           repo,
		publisher:      publisher,
		log:            log,
		defaultChainID: defaultChainID,
	}
}

// ListEvents returns every event.
func (s *EventService) ListEvents() ([]models.Event, error) {
	return s.repo.GetEvents()
}

// GetEvent retrieves a single event.
func (s *EventService) GetEvent(id uint) (*models.Event, error) {
	return s.repo.GetEvent(id)
}

// CreateEvent stores a new event owned by the calling artist. Server-owned
// fields on event are overwritten.
func (s *EventService) CreateEvent(identity *models.Identity, event *models.Event) error {
	artistID, err := policy.ArtistScope(identity)
	if err != nil {
		return err
	}

	event.ID = 0
	event.ArtistID = artistID
	event.ContractAddress = nil
	if event.ChainID == 0 {
		event.ChainID = s.defaultChainID
	}
	if err := s.repo.CreateEvent(event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	metrics.EventCreated()
	publish(s.log, s.publisher, messages.QueueTicketEvents, messages.TypeEventCreated, messages.EventCreated{
		EventID:     event.ID,
		ArtistID:    event.ArtistID,
		TotalSupply: event.TotalSupply,
		ChainID:     event.ChainID,
	})
	s.log.Infow("Event created", "eventId", event.ID, "artistId", event.ArtistID, "totalSupply", event.TotalSupply)
	return nil
}

// ArtistEvents lists the events created by the calling artist.
func (s *EventService) ArtistEvents(identity *models.Identity) ([]models.Event, error) {
	artistID, err := policy.ArtistScope(identity)
	if err != nil {
		return nil, err
	}
	return s.repo.GetArtistEvents(artistID)
}

// SetContract records the deployed ticket contract of an event owned by the caller.
func (s *EventService) SetContract(identity *models.Identity, eventID uint, contractAddress string) (*models.Event, error) {
	// Non-artists are refused before the lookup.
	if _, err := policy.ArtistScope(identity); err != nil {
		return nil, err
	}
	event, err := s.repo.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanManageEvent(identity, event); err != nil {
		return nil, err
	}
	return s.repo.SetEventContract(eventID, contractAddress)
}

// RecordDeployment backfills the contract address reported by the
// transaction relay. A repeated report for an already recorded address is
// not an error.
func (s *EventService) RecordDeployment(msg messages.ContractDeployed) error {
	event, err := s.repo.SetEventContract(msg.EventID, msg.ContractAddress)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			s.log.Warnw("Contract already recorded", "eventId", msg.EventID, "contractAddress", msg.ContractAddress)
			return nil
		}
		return fmt.Errorf("failed to record deployment for event %d: %w", msg.EventID, err)
	}
	s.log.Infow("Contract recorded", "eventId", event.ID, "contractAddress", *event.ContractAddress)
	return nil
}
