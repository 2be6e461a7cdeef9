// Package app assembles the HTTP surface from its collaborators.
package app

import (
	"time"

	"nftickets/internal/handlers"
	"nftickets/internal/metrics"
	"nftickets/internal/middleware"
	"nftickets/internal/repositories"
	"nftickets/internal/services"
	"nftickets/internal/workers"
	"nftickets/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Options configures New.
type Options struct {
	Log       *logger.Logger
	Inventory repositories.InventoryRepository
	Codes     repositories.VerificationCodeRepository
	// Publisher defaults to a workers.LocalPublisher, which delivers codes
	// in-process and drops the other messages.
	Publisher services.Publisher
	// Limiter guards the auth routes; nil disables it.
	Limiter *middleware.RateLimiter

	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	DefaultChainID int64

	AccessLog      bool
	MetricsEnabled bool
}

// App is the assembled service.
type App struct {
	Fiber   *fiber.App
	Auth    *services.AuthService
	Events  *services.EventService
	Tickets *services.TicketService
	Users   *services.UserService
}

// New wires services and handlers and registers every route.
func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = workers.NewLocalPublisher(workers.NewCodeMailer(log))
	}

	ledger := services.NewVerificationLedger(opts.Codes, opts.BcryptCost)
	a := &App{
		Auth:    services.NewAuthService(opts.Inventory, ledger, publisher, log, opts.JWTSecret, opts.TokenTTL),
		Events:  services.NewEventService(opts.Inventory, publisher, log, opts.DefaultChainID),
		Tickets: services.NewTicketService(opts.Inventory, publisher, log),
		Users:   services.NewUserService(opts.Inventory, log),
	}

	app := fiber.New(fiber.Config{
		AppName: "nftickets",
	})
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New()) // Request logger
	}
	if opts.MetricsEnabled {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.Handler())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	auth := middleware.AuthRequired(a.Auth, log)
	api := app.Group("/api")

	handlers.NewAuthHandler(a.Auth, log).RegisterRoutes(api, opts.Limiter.Handler())
	handlers.NewEventHandler(a.Events, a.Tickets, log).RegisterRoutes(api, auth)
	handlers.NewTicketHandler(a.Tickets, log).RegisterRoutes(api, auth)
	handlers.NewUserHandler(a.Users, log).RegisterRoutes(api, auth)

	a.Fiber = app
	return a
}
