// Package messages defines the payloads exchanged over the message broker.
package messages

import "time"

// Queue names.
const (
	QueueVerificationCodes   = "verification_codes"
	QueueTicketEvents        = "ticket_events"
	QueueContractDeployments = "contract_deployments"
)

// Message types, carried in the AMQP type property.
const (
	TypeCodeRequested    = "auth.code_requested"
	TypeEventCreated     = "event.created"
	TypeTicketIssued     = "ticket.issued"
	TypeContractDeployed = "contract.deployed"
)

// Queues lists every queue the service declares.
var Queues = []string{QueueVerificationCodes, QueueTicketEvents, QueueContractDeployments}

// CodeRequested asks the mailer to deliver a verification code.
type CodeRequested struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EventCreated is published after an artist creates an event, so the
// transaction relay can deploy its ticket contract.
type EventCreated struct {
	EventID     uint   `json:"eventId"`
	ArtistID    string `json:"artistId"`
	TotalSupply int    `json:"totalSupply"`
	ChainID     int64  `json:"chainId"`
}

// TicketIssued is published after a ticket is sold, so the relay can mint it.
type TicketIssued struct {
	TicketID      uint      `json:"ticketId"`
	EventID       uint      `json:"eventId"`
	UserID        string    `json:"userId"`
	TokenID       int       `json:"tokenId"`
	WalletAddress *string   `json:"walletAddress,omitempty"`
	PurchaseDate  time.Time `json:"purchaseDate"`
}

// ContractDeployed is produced by the transaction relay once an event's
// ticket contract is on chain.
type ContractDeployed struct {
	EventID         uint   `json:"eventId"`
	ContractAddress string `json:"contractAddress"`
}
