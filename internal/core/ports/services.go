package ports

import (
	"context"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
)

// ConnectionRegistry is the port tracking live connections and their group
// memberships. All methods are idempotent; Unregister tolerates partial
// state and unknown connections.
type ConnectionRegistry interface {
	// Register creates an empty membership set for a newly accepted
	// connection. No-op if the connection is already present.
	Register(connectionID string)

	// Unregister removes the connection from every group it belongs to and
	// discards its membership set. Safe to call for connections that were
	// never registered or whose state was left inconsistent.
	Unregister(connectionID string)
}

// GroupRouter is the port mapping groups to their member connections.
// The single-process implementation lives in the websocket adapter; a
// broker-backed implementation can replace it without touching the hub.
type GroupRouter interface {
	// Join adds the connection to the group, creating the group lazily.
	// Idempotent; joining an unknown connection is ignored.
	Join(connectionID string, group domain.Group)

	// Leave removes the connection from the group. No-op if the connection
	// is not a member. An emptied group must not block future joins.
	Leave(connectionID string, group domain.Group)

	// Broadcast delivers the event to a snapshot of the group's current
	// members, sender included. Delivery per member is independent and
	// best-effort; individual failures are absorbed, never returned.
	Broadcast(group domain.Group, event domain.Event)
}

// SendMessageParams defines the input for sending a chat message.
type SendMessageParams struct {
	ConnectionID string
	TicketID     string
	SenderName   string
	SenderEmail  string
	Body         string
}

// HubService is the orchestrating port the transport layer drives. It binds
// client-invoked operations to the group router and message store, and
// connection lifecycle events to the connection registry.
type HubService interface {
	// OnConnected registers a freshly accepted connection. No broadcast.
	OnConnected(ctx context.Context, connectionID string)

	// OnDisconnected cleans up after a graceful or abrupt disconnect.
	// reason is logged only; nil means a clean close.
	OnDisconnected(ctx context.Context, connectionID string, reason error)

	// JoinTechnicianGroup subscribes the connection to the well-known
	// technicians group.
	JoinTechnicianGroup(ctx context.Context, connectionID string)

	// JoinTicketGroup subscribes the connection to a ticket's chat group
	// after validating the identifier.
	JoinTicketGroup(ctx context.Context, connectionID, ticketID string) error

	// SendMessage validates, persists, then broadcasts a chat message to
	// the ticket's group. Persistence failure means no broadcast.
	SendMessage(ctx context.Context, params SendMessageParams) error

	// SendSatisfactionSurvey broadcasts a one-shot survey prompt to the
	// ticket's group. Not persisted.
	SendSatisfactionSurvey(ctx context.Context, ticketID, userEmail string) error

	// NotifyTicketCreated fans a new-ticket notification out to the
	// technicians group. Not persisted.
	NotifyTicketCreated(ctx context.Context, ticketID int64, title string) error

	// ListMessages returns a ticket's chat history in replay order.
	ListMessages(ctx context.Context, ticketID int64) ([]*domain.ChatMessage, error)
}
