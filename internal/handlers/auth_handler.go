package handlers

import (
	"nftickets/internal/services"
	"nftickets/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for passwordless sign-in.
type AuthHandler struct {
	authService *services.AuthService
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes. limiter guards both.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, limiter fiber.Handler) {
	authRoutes := router.Group("/auth", limiter)
	authRoutes.Post("/request-code", h.HandleRequestCode)
	authRoutes.Post("/verify", h.HandleVerify)
	authRoutes.Post("/logout", h.HandleLogout)
}

// RequestCodeRequest represents the request body for a verification code.
type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleRequestCode issues a verification code. The code itself is delivered
// out of band and never returned here.
func (h *AuthHandler) HandleRequestCode(c *fiber.Ctx) error {
	var req RequestCodeRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, err)
	}

	if _, err := h.authService.RequestCode(req.Email); err != nil {
		return respondError(c, h.log, err, "Could not issue verification code")
	}
	return c.JSON(fiber.Map{
		"message": "Verification code sent",
	})
}

// VerifyRequest represents the request body for code verification.
type VerifyRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6,numeric"`
	IsArtist bool   `json:"isArtist"`
}

// HandleVerify redeems a code and signs the caller in.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := bind(c, &req); err != nil {
		return respondBindError(c, err)
	}

	user, token, err := h.authService.Verify(req.Email, req.Code, req.IsArtist)
	if err != nil {
		return respondError(c, h.log, err, "Verification failed")
	}
	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleLogout ends a session. Tokens are stateless, so the client drops its
// token and the server only acknowledges.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}
