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

// TicketService handles business logic for ticket sales.
type TicketService struct {
	repo      repositories.InventoryRepository
	publisher Publisher
	log       *logger.Logger
}

// NewTicketService creates a new TicketService.
func NewTicketService(repo repositories.InventoryRepository, publisher Publisher, log *logger.Logger) *TicketService {
	return &TicketService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Purchase issues one ticket of eventID to the caller. The token id is
// assigned by the store inside the same atomic step that decrements supply.
func (s *TicketService) Purchase(identity *models.Identity, eventID uint) (*models.Ticket, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		EventID: eventID,
		UserID:  identity.UserID,
	}
	if err := s.repo.CreateTicket(ticket); err != nil {
		metrics.TicketRejected(rejectionReason(err))
		return nil, fmt.Errorf("failed to purchase ticket: %w", err)
	}
	metrics.TicketIssued()

	msg := messages.TicketIssued{
		TicketID:      ticket.ID,
		EventID:       ticket.EventID,
		UserID:        ticket.UserID,
		TokenID:       ticket.TokenID,
		WalletAddress: identity.WalletAddress,
		PurchaseDate:  ticket.PurchaseDate,
	}
	if user, err := s.repo.GetUserByID(identity.UserID); err == nil && user.WalletAddress != nil {
		msg.WalletAddress = user.WalletAddress
	}
	publish(s.log, s.publisher, messages.QueueTicketEvents, messages.TypeTicketIssued, msg)

	s.log.Infow("Ticket issued", "ticketId", ticket.ID, "eventId", ticket.EventID, "tokenId", ticket.TokenID)
	return ticket, nil
}

// UserTickets lists the caller's tickets.
func (s *TicketService) UserTickets(identity *models.Identity) ([]models.Ticket, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	return s.repo.GetUserTickets(identity.UserID)
}

// EventTickets lists the tickets sold for an event owned by the caller.
func (s *TicketService) EventTickets(identity *models.Identity, eventID uint) ([]models.Ticket, error) {
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
	return s.repo.GetEventTickets(eventID)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, repositories.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, repositories.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
