package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"nftickets/pkg/logger"

	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and a publishing channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logger.Logger

	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
	// Queues are declared durable on connect.
	Queues []string
	// Prefetch bounds unacknowledged deliveries per consumer.
	Prefetch int
}

// NewClient connects to RabbitMQ, opens a channel and declares the configured queues.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, queue := range cfg.Queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
		}
	}
	if cfg.Prefetch > 0 {
		if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
			log.Warnf("RabbitMQ: set QoS failed: %v", err)
		}
	}

	log.Infow("RabbitMQ client connected", "queues", cfg.Queues)
	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishJSON marshals payload and publishes it as a persistent message on
// the named queue through the default exchange.
func (c *Client) PublishJSON(queue, messageType string, payload interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", messageType, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",    // default exchange
		queue, // routing key is the queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         messageType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s message: %w", messageType, err)
	}
	return nil
}

// Consume starts a goroutine delivering messages from queue to handler on a
// dedicated channel. Messages are acked when handler returns nil and rejected
// without requeue otherwise, so a poison message cannot loop forever.
func (c *Client) Consume(queue string, handler func(msg amqp.Delivery) error) error {
	if c.conn == nil {
		return fmt.Errorf("RabbitMQ connection is not available for consumption")
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	msgs, err := ch.Consume(
		queue,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to register consumer on %s: %w", queue, err)
	}

	c.log.Infof("Waiting for messages on %s", queue)
	go func() {
		defer ch.Close()
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.log.Errorw("Error processing message", "queue", queue, "type", msg.Type, "tag", msg.DeliveryTag, "error", err)
				if nackErr := msg.Nack(false, false); nackErr != nil {
					c.log.Errorf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.log.Errorf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
		c.log.Warnf("Delivery channel for %s closed", queue)
	}()
	return nil
}
