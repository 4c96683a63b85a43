package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
)

// MessageStore is the in-memory MessageStore fallback, used when no database
// is configured. Message IDs come from a process-local counter, which also
// serves as the deterministic tie-break for equal timestamps. Contents do
// not survive a restart.
type MessageStore struct {
	mu       sync.Mutex
	nextID   int64
	byTicket map[int64][]domain.ChatMessage
}

// Ensure implementation matches the interface.
var _ ports.MessageStore = (*MessageStore)(nil)

// NewMessageStore creates an empty in-memory message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{
		byTicket: make(map[int64][]domain.ChatMessage),
	}
}

// Append stores one message and returns a copy with its assigned ID.
func (s *MessageStore) Append(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := *message
	stored.ID = s.nextID
	s.byTicket[message.TicketID] = append(s.byTicket[message.TicketID], stored)

	return &stored, nil
}

// ListByTicket returns the ticket's history ordered by (sent_at, id).
func (s *MessageStore) ListByTicket(ctx context.Context, ticketID int64) ([]*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.byTicket[ticketID]
	messages := make([]*domain.ChatMessage, len(stored))
	for i := range stored {
		m := stored[i]
		messages[i] = &m
	}

	// Appends arrive in lock order, which can differ from timestamp order
	// under concurrent sends.
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].SentAt.Equal(messages[j].SentAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].SentAt.Before(messages[j].SentAt)
	})

	return messages, nil
}

// Count returns the number of messages stored for a ticket.
func (s *MessageStore) Count(ticketID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byTicket[ticketID])
}
