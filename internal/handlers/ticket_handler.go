package handlers

import (
	"nftickets/internal/middleware"
	"nftickets/internal/services"
	"nftickets/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// TicketHandler handles HTTP requests for ticket purchases.
type TicketHandler struct {
	service *services.TicketService
	log     *logger.Logger
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(service *services.TicketService, log *logger.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the ticket routes, all behind auth.
func (h *TicketHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/tickets", auth, h.HandlePurchase)
	router.Get("/user/tickets", auth, h.HandleGetUserTickets)
}

// PurchaseRequest represents the request body for buying a ticket. TokenID is
// accepted for compatibility but the store assigns the real one.
type PurchaseRequest struct {
	EventID uint `json:"eventId" validate:"required"`
	TokenID *int `json:"tokenId,omitempty"`
}

// HandlePurchase issues one ticket to the caller.
func (h *TicketHandler) HandlePurchase(c *fiber.Ctx) error {
	var req PurchaseRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, err)
	}

	ticket, err := h.service.Purchase(middleware.CurrentIdentity(c), req.EventID)
	if err != nil {
		return respondError(c, h.log, err, "Could not purchase ticket")
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// HandleGetUserTickets lists the caller's tickets.
func (h *TicketHandler) HandleGetUserTickets(c *fiber.Ctx) error {
	tickets, err := h.service.UserTickets(middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve tickets")
	}
	return c.JSON(tickets)
}
