package websocket

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-chat-backend/internal/adapters/secondary/memory"
	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
	"github.com/lorrc/ticket-chat-backend/internal/core/services"
)

// Exercises the full hub path with a real router and store: 50 members of one
// ticket group each send one message concurrently. Every message is persisted
// exactly once and every member sees every message exactly once.
func TestHub_ConcurrentSendersFanOut(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(logger)
	store := memory.NewMessageStore()
	hub := services.NewHubService(router, router, store, logger)

	const n = 50
	clients := make([]*Client, n)
	for i := range clients {
		clients[i] = &Client{
			ID:     fmt.Sprintf("conn-%d", i),
			Send:   make(chan domain.Event, sendBufferSize),
			logger: logger,
		}
		router.Bind(clients[i])
		hub.OnConnected(context.Background(), clients[i].ID)
		require.NoError(t, hub.JoinTicketGroup(context.Background(), clients[i].ID, "42"))
	}

	var wg sync.WaitGroup
	for i, client := range clients {
		wg.Add(1)
		go func(i int, c *Client) {
			defer wg.Done()
			err := hub.SendMessage(context.Background(), ports.SendMessageParams{
				ConnectionID: c.ID,
				TicketID:     "42",
				SenderName:   fmt.Sprintf("User %d", i),
				SenderEmail:  fmt.Sprintf("user%d@example.com", i),
				Body:         fmt.Sprintf("message %d", i),
			})
			assert.NoError(t, err)
		}(i, client)
	}
	wg.Wait()

	assert.Equal(t, n, store.Count(42), "each message persisted exactly once")

	for _, client := range clients {
		events := drain(client)
		require.Len(t, events, n, "every member receives every message")

		seen := make(map[string]struct{}, n)
		for _, event := range events {
			assert.Equal(t, domain.EventReceiveMessage, event.Type)
			payload, ok := event.Payload.(domain.ReceiveMessagePayload)
			require.True(t, ok)
			_, dup := seen[payload.Message]
			assert.False(t, dup, "no duplicate deliveries")
			seen[payload.Message] = struct{}{}
		}
	}
}
