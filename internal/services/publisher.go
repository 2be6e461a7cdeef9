package services

import "nftickets/pkg/logger"

// Publisher delivers domain messages to the broker. *rabbitmq.Client
// satisfies it.
type Publisher interface {
	PublishJSON(queue, messageType string, payload interface{}) error
}

// publish sends a message best-effort: a failure is logged and never undoes
// the state change that produced the message.
func publish(log *logger.Logger, p Publisher, queue, messageType string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishJSON(queue, messageType, payload); err != nil {
		log.Warnw("Failed to publish message", "queue", queue, "type", messageType, "error", err)
	}
}
