package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nftickets/internal/app"
	"nftickets/internal/config"
	"nftickets/internal/messages"
	"nftickets/internal/middleware"
	"nftickets/internal/services"
	"nftickets/internal/workers"
	"nftickets/pkg/logger"
	"nftickets/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Development())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// --- Store ---
	store, err := app.OpenStore(cfg.StoreDriver, cfg.DatabaseDSN, zlog)
	if err != nil {
		zlog.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close()

	// --- RabbitMQ outbox ---
	// Without a broker, app.New delivers codes in-process.
	var publisher services.Publisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQEnabled {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Queues:   messages.Queues,
			Prefetch: 10,
		}, zlog)
		if err != nil {
			zlog.Warnf("RabbitMQ unavailable, running without outbox: %v", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	// --- Rate limiting ---
	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		if rdb := newRedisClient(cfg.RedisURL, zlog); rdb != nil {
			defer rdb.Close()
			limiter = middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
				Prefix:         "ratelimit:auth",
				Capacity:       cfg.RateLimitCapacity,
				RefillInterval: cfg.RateLimitRefillInterval,
				TTL:            cfg.RateLimitTTL,
			}, zlog)
		}
	}

	a := app.New(app.Options{
		Log:            zlog,
		Inventory:      store.Inventory,
		Codes:          store.Codes,
		Publisher:      publisher,
		Limiter:        limiter,
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		BcryptCost:     cfg.BcryptCost,
		DefaultChainID: cfg.DefaultChainID,
		AccessLog:      true,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	// --- Consumers ---
	if mqClient != nil {
		if err := workers.Start(mqClient, a.Events, zlog); err != nil {
			zlog.Errorf("Failed to start RabbitMQ consumers: %v", err)
		}
	}

	// --- Start HTTP Server ---
	zlog.Infow("Starting server", "port", cfg.AppPort, "store", cfg.StoreDriver, "env", cfg.AppEnv)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := a.Fiber.Listen(cfg.AppPort); err != nil {
			zlog.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	zlog.Info("Shutting down server...")

	if err := a.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Errorf("Error during Fiber shutdown: %v", err)
	}
	zlog.Info("Server gracefully stopped")
}

// newRedisClient connects to Redis. It returns nil when the server cannot be
// reached so the limiter is skipped.
func newRedisClient(url string, zlog *logger.Logger) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		zlog.Warnf("Invalid REDIS_URL, rate limiting disabled: %v", err)
		return nil
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Warnf("Redis unreachable, rate limiting disabled: %v", err)
		client.Close()
		return nil
	}
	return client
}
