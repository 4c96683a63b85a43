package ports

import (
	"context"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
)

// MessageStore is the port for append-only chat message persistence.
type MessageStore interface {
	// Append durably persists one message and returns the stored copy with
	// its assigned ID. A message is only sendable once Append has returned
	// nil; the hub never broadcasts a message Append rejected.
	Append(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error)

	// ListByTicket returns a ticket's history in replay order:
	// (sent_at, id) ascending.
	ListByTicket(ctx context.Context, ticketID int64) ([]*domain.ChatMessage, error)
}
