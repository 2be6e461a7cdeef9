package handlers

import (
	"nftickets/internal/middleware"
	"nftickets/internal/services"
	"nftickets/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the caller's profile.
type UserHandler struct {
	service *services.UserService
	log     *logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the user routes, all behind auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/user", auth, h.HandleGetUser)
	router.Post("/user/wallet", auth, h.HandleAttachWallet)
}

// HandleGetUser returns the caller's stored profile.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.Current(middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve user")
	}
	return c.JSON(user)
}

// WalletRequest represents the request body for attaching a wallet.
type WalletRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,eth_addr"`
}

// HandleAttachWallet records the caller's wallet address.
func (h *UserHandler) HandleAttachWallet(c *fiber.Ctx) error {
	var req WalletRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, err)
	}

	user, err := h.service.AttachWallet(middleware.CurrentIdentity(c), req.WalletAddress)
	if err != nil {
		return respondError(c, h.log, err, "Could not attach wallet")
	}
	return c.JSON(user)
}
