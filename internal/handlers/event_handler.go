package handlers

import (
	"time"

	"nftickets/internal/middleware"
	"nftickets/internal/models"
	"nftickets/internal/services"
	"nftickets/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// EventHandler handles HTTP requests for events.
type EventHandler struct {
	events  *services.EventService
	tickets *services.TicketService
	log     *logger.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *services.EventService, tickets *services.TicketService, log *logger.Logger) *EventHandler {
	return &EventHandler{
		events:  events,
		tickets: tickets,
		log:     log,
	}
}

// RegisterRoutes registers the event routes. Listing and reading are public;
// everything else runs behind auth.
func (h *EventHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	eventRoutes := router.Group("/events")
	eventRoutes.Get("/", h.HandleGetEvents)
	eventRoutes.Get("/:id", h.HandleGetEvent)
	eventRoutes.Post("/", auth, middleware.ArtistRequired(), h.HandleCreateEvent)
	eventRoutes.Get("/:id/tickets", auth, h.HandleGetEventTickets)
	eventRoutes.Put("/:id/contract", auth, h.HandleSetContract)

	router.Get("/artist/events", auth, middleware.ArtistRequired(), h.HandleGetArtistEvents)
}

// HandleGetEvents lists every event.
func (h *EventHandler) HandleGetEvents(c *fiber.Ctx) error {
	events, err := h.events.ListEvents()
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve events")
	}
	return c.JSON(events)
}

// HandleGetEvent retrieves a single event by its ID.
func (h *EventHandler) HandleGetEvent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err, "Invalid event ID")
	}
	event, err := h.events.GetEvent(id)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve event")
	}
	return c.JSON(event)
}

// CreateEventRequest represents the request body for a new event. The artist
// is taken from the caller's identity.
type CreateEventRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	ImageURL    string          `json:"imageUrl" validate:"omitempty,url"`
	Date        time.Time       `json:"date" validate:"required"`
	Venue       string          `json:"venue" validate:"required,max=200"`
	Price       decimal.Decimal `json:"price"`
	TotalSupply int             `json:"totalSupply" validate:"required,min=1"`
	ChainID     int64           `json:"chainId" validate:"omitempty,min=1"`
}

// HandleCreateEvent creates an event owned by the calling artist.
func (h *EventHandler) HandleCreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, err)
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Date:        req.Date,
		Venue:       req.Venue,
		Price:       req.Price,
		TotalSupply: req.TotalSupply,
		ChainID:     req.ChainID,
	}
	if err := h.events.CreateEvent(middleware.CurrentIdentity(c), event); err != nil {
		return respondError(c, h.log, err, "Could not create event")
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// HandleGetArtistEvents lists the calling artist's events.
func (h *EventHandler) HandleGetArtistEvents(c *fiber.Ctx) error {
	events, err := h.events.ArtistEvents(middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve artist events")
	}
	return c.JSON(events)
}

// HandleGetEventTickets lists the tickets sold for one of the caller's events.
func (h *EventHandler) HandleGetEventTickets(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err, "Invalid event ID")
	}
	tickets, err := h.tickets.EventTickets(middleware.CurrentIdentity(c), id)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve event tickets")
	}
	return c.JSON(tickets)
}

// ContractRequest represents the request body for recording a deployed contract.
type ContractRequest struct {
	ContractAddress string `json:"contractAddress" validate:"required,eth_addr"`
}

// HandleSetContract records the ticket contract of one of the caller's events.
func (h *EventHandler) HandleSetContract(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err, "Invalid event ID")
	}
	var req ContractRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, err)
	}

	event, err := h.events.SetContract(middleware.CurrentIdentity(c), id, req.ContractAddress)
	if err != nil {
		return respondError(c, h.log, err, "Could not record contract")
	}
	return c.JSON(event)
}
