package middleware

import (
	"errors"
	"strings"

	"nftickets/internal/models"
	"nftickets/internal/policy"
	"nftickets/internal/repositories"
	"nftickets/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// TokenValidator turns a bearer token into the identity it carries.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.Identity, error)
}

// CurrentIdentity returns the identity attached by AuthRequired, or nil.
func CurrentIdentity(c *fiber.Ctx) *models.Identity {
	identity, _ := c.Locals(identityKey).(*models.Identity)
	return identity
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		identity, err := validator.ValidateToken(parts[1])
		if err != nil {
			log.Debug("JWT validation failed: ", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// ArtistRequired rejects callers without the artist capability. It must run
// after AuthRequired.
func ArtistRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := policy.RequireArtist(CurrentIdentity(c)); err != nil {
			status := fiber.StatusForbidden
			if errors.Is(err, repositories.ErrUnauthenticated) {
				status = fiber.StatusUnauthorized
			}
			return c.Status(status).JSON(fiber.Map{
				"message": "Artist account required",
				"error":   err.Error(),
			})
		}
		return c.Next()
	}
}
