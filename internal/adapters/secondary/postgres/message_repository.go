package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
)

// MessageRepository is the Postgres-backed MessageStore. Replay order is
// (ticket_id, sent_at, id); the bigserial id breaks equal-timestamp ties.
type MessageRepository struct {
	pool *pgxpool.Pool
}

// Ensure implementation matches the interface.
var _ ports.MessageStore = (*MessageRepository)(nil)

// NewMessageRepository creates a new chat message repository.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const appendMessageQuery = `
INSERT INTO chat_messages (ticket_id, sender_name, sender_email, body, sent_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

// Append persists one message and returns the stored copy with its
// database-assigned ID.
func (r *MessageRepository) Append(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	stored := *message
	err := r.pool.QueryRow(ctx, appendMessageQuery,
		message.TicketID,
		message.SenderName,
		message.SenderEmail,
		message.Body,
		message.SentAt,
	).Scan(&stored.ID)
	if err != nil {
		return nil, fmt.Errorf("append chat message: %w", err)
	}

	return &stored, nil
}

const listByTicketQuery = `
SELECT id, ticket_id, sender_name, sender_email, body, sent_at
FROM chat_messages
WHERE ticket_id = $1
ORDER BY sent_at, id`

// ListByTicket retrieves a ticket's chat history in replay order.
func (r *MessageRepository) ListByTicket(ctx context.Context, ticketID int64) ([]*domain.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, listByTicketQuery, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.SenderName, &m.SenderEmail, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}

	return messages, nil
}
