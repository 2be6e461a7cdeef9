// Package workers consumes broker messages addressed to this service.
package workers

import (
	"encoding/json"
	"fmt"

	"nftickets/internal/messages"
	"nftickets/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/streadway/amqp"
)

// Consumer is the part of the broker client the workers need.
type Consumer interface {
	Consume(queue string, handler func(msg amqp.Delivery) error) error
}

// DeploymentRecorder backfills contract addresses.
type DeploymentRecorder interface {
	RecordDeployment(msg messages.ContractDeployed) error
}

var validate = validator.New()

type contractDeployed struct {
	EventID         uint   `json:"eventId" validate:"required"`
	ContractAddress string `json:"contractAddress" validate:"required,eth_addr"`
}

// CodeMailer delivers verification codes. This build writes them to the log
// in place of an email gateway.
type CodeMailer struct {
	log *logger.Logger
}

func NewCodeMailer(log *logger.Logger) *CodeMailer {
	return &CodeMailer{log: log}
}

// Handle processes one auth.code_requested message.
func (m *CodeMailer) Handle(msg amqp.Delivery) error {
	if msg.Type != "" && msg.Type != messages.TypeCodeRequested {
		return fmt.Errorf("unexpected message type %q", msg.Type)
	}
	var req messages.CodeRequested
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		return fmt.Errorf("failed to decode code request: %w", err)
	}
	return m.Deliver(req)
}

// Deliver hands one code to its recipient.
func (m *CodeMailer) Deliver(req messages.CodeRequested) error {
	if req.Email == "" || req.Code == "" {
		return fmt.Errorf("code request is missing email or code")
	}
	m.log.Infow("Delivering verification code", "email", req.Email, "code", req.Code, "expiresAt", req.ExpiresAt)
	return nil
}

// LocalPublisher stands in for the broker: code requests go straight to the
// mailer and every other message is dropped.
type LocalPublisher struct {
	mailer *CodeMailer
}

func NewLocalPublisher(mailer *CodeMailer) *LocalPublisher {
	return &LocalPublisher{mailer: mailer}
}

func (p *LocalPublisher) PublishJSON(queue, messageType string, payload interface{}) error {
	if messageType != messages.TypeCodeRequested {
		return nil
	}
	req, ok := payload.(messages.CodeRequested)
	if !ok {
		return fmt.Errorf("unexpected %s payload %T", messageType, payload)
	}
	return p.mailer.Deliver(req)
}

// DeploymentHandler applies contract deployments reported by the relay.
type DeploymentHandler struct {
	recorder DeploymentRecorder
	log      *logger.Logger
}

func NewDeploymentHandler(recorder DeploymentRecorder, log *logger.Logger) *DeploymentHandler {
	return &DeploymentHandler{recorder: recorder, log: log}
}

// Handle processes one contract deployment message.
func (h *DeploymentHandler) Handle(msg amqp.Delivery) error {
	if msg.Type != "" && msg.Type != messages.TypeContractDeployed {
		return fmt.Errorf("unexpected message type %q", msg.Type)
	}
	var payload contractDeployed
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		return fmt.Errorf("failed to decode deployment: %w", err)
	}
	if err := validate.Struct(payload); err != nil {
		return fmt.Errorf("invalid deployment: %w", err)
	}
	return h.recorder.RecordDeployment(messages.ContractDeployed{
		EventID:         payload.EventID,
		ContractAddress: payload.ContractAddress,
	})
}

// Start registers both consumers.
func Start(consumer Consumer, recorder DeploymentRecorder, log *logger.Logger) error {
	mailer := NewCodeMailer(log)
	if err := consumer.Consume(messages.QueueVerificationCodes, mailer.Handle); err != nil {
		return err
	}
	deployments := NewDeploymentHandler(recorder, log)
	return consumer.Consume(messages.QueueContractDeployments, deployments.Handle)
}
