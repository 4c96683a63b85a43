package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wsAdapter "github.com/lorrc/ticket-chat-backend/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-chat-backend/internal/adapters/secondary/memory"
	"github.com/lorrc/ticket-chat-backend/internal/auth"
	"github.com/lorrc/ticket-chat-backend/internal/config"
	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
	"github.com/lorrc/ticket-chat-backend/internal/core/services"
)

// wsFixture wires a real hub end to end: upgrade handler, router, hub
// service and the in-memory store, behind an httptest server.
type wsFixture struct {
	server *httptest.Server
	tm     *auth.TokenManager
	store  *memory.MessageStore
	hub    ports.HubService
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()

	logger := testLogger()
	cfg := &config.Config{
		WebSocket: config.WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		App: config.AppConfig{Environment: "development"},
	}

	tm := auth.NewTokenManager("test-secret-for-websocket-tests", time.Hour)
	store := memory.NewMessageStore()
	router := wsAdapter.NewRouter(logger)
	hub := services.NewHubService(router, router, store, logger)
	handler := NewWebSocketHandler(router, hub, tm, cfg, logger)

	server := httptest.NewServer(stdhttp.HandlerFunc(handler.ServeHTTP))
	t.Cleanup(server.Close)

	return &wsFixture{server: server, tm: tm, store: store, hub: hub}
}

// dial opens an authenticated websocket connection to the fixture server.
func (f *wsFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	token, err := f.tm.GenerateToken(uuid.New(), "USER")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func sendInvocation(t *testing.T, conn *websocket.Conn, invType string, payload any) {
	t.Helper()

	raw, err := json.Marshal(map[string]any{"type": invType, "payload": payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

// wireEvent is the server -> client envelope as seen on the wire.
type wireEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event wireEvent
	require.NoError(t, json.Unmarshal(raw, &event))
	return event
}

func assertNoEvent(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err, "expected no event within the window")
}

func TestWebSocketHandler_RejectsMissingToken(t *testing.T) {
	f := newWSFixture(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.Nil(t, conn)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketHandler_RejectsInvalidToken(t *testing.T) {
	f := newWSFixture(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "?token=not-a-jwt"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.Nil(t, conn)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocket_MessageFanOutWithinTicketGroup(t *testing.T) {
	f := newWSFixture(t)

	alice := f.dial(t)
	tech := f.dial(t)
	outsider := f.dial(t)

	sendInvocation(t, alice, "JoinTicketGroup", map[string]any{"ticketId": "42"})
	sendInvocation(t, tech, "JoinTicketGroup", map[string]any{"ticketId": "42"})
	sendInvocation(t, outsider, "JoinTicketGroup", map[string]any{"ticketId": "99"})

	// Joins are processed in arrival order per connection; give the other
	// connections' read pumps a moment before broadcasting.
	time.Sleep(100 * time.Millisecond)

	sendInvocation(t, alice, "SendMessage", map[string]any{
		"ticketId":  "42",
		"userName":  "Alice",
		"userEmail": "alice@example.com",
		"message":   "My printer is on fire",
	})

	for _, conn := range []*websocket.Conn{alice, tech} {
		event := readEvent(t, conn)
		assert.Equal(t, "ReceiveMessage", event.Type)

		var payload domain.ReceiveMessagePayload
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "Alice", payload.UserName)
		assert.Equal(t, "alice@example.com", payload.UserEmail)
		assert.Equal(t, "My printer is on fire", payload.Message)
	}

	assertNoEvent(t, outsider)
	assert.Equal(t, 1, f.store.Count(42), "broadcast message is persisted")
}

func TestWebSocket_InvalidJoinReturnsErrorToInvokerOnly(t *testing.T) {
	f := newWSFixture(t)

	offender := f.dial(t)
	bystander := f.dial(t)

	sendInvocation(t, bystander, "JoinTicketGroup", map[string]any{"ticketId": "42"})
	time.Sleep(100 * time.Millisecond)

	sendInvocation(t, offender, "JoinTicketGroup", map[string]any{"ticketId": "not-a-number"})

	event := readEvent(t, offender)
	assert.Equal(t, "Error", event.Type)

	var payload domain.ErrorPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "INVALID_ARGUMENT", payload.Code)

	assertNoEvent(t, bystander)
}

func TestWebSocket_InvalidSendMessageIsNotPersisted(t *testing.T) {
	f := newWSFixture(t)

	conn := f.dial(t)
	sendInvocation(t, conn, "JoinTicketGroup", map[string]any{"ticketId": "42"})

	sendInvocation(t, conn, "SendMessage", map[string]any{
		"ticketId":  "42",
		"userName":  "",
		"userEmail": "alice@example.com",
		"message":   "orphan",
	})

	event := readEvent(t, conn)
	assert.Equal(t, "Error", event.Type)
	assert.Equal(t, 0, f.store.Count(42))
}

func TestWebSocket_SurveyReachesTicketGroupWithoutPersisting(t *testing.T) {
	f := newWSFixture(t)

	customer := f.dial(t)
	tech := f.dial(t)
	trigger := f.dial(t)

	// The technician watches the queue but has not opened this ticket's
	// chat; the prompt is scoped to the ticket group only.
	sendInvocation(t, customer, "JoinTicketGroup", map[string]any{"ticketId": "42"})
	sendInvocation(t, tech, "JoinTechnicianGroup", map[string]any{})
	time.Sleep(100 * time.Millisecond)

	sendInvocation(t, trigger, "SendSatisfactionSurvey", map[string]any{
		"ticketId":  "42",
		"userEmail": "alice@example.com",
	})

	event := readEvent(t, customer)
	assert.Equal(t, "ShowSatisfactionSurvey", event.Type)

	var payload domain.SurveyPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "42", payload.TicketID)
	assert.Equal(t, "alice@example.com", payload.UserEmail)

	assertNoEvent(t, tech)
	assert.Equal(t, 0, f.store.Count(42), "survey prompts are transient")
}

func TestWebSocket_TechnicianGroupReceivesTicketCreated(t *testing.T) {
	f := newWSFixture(t)

	tech := f.dial(t)
	customer := f.dial(t)

	sendInvocation(t, tech, "JoinTechnicianGroup", map[string]any{})
	sendInvocation(t, customer, "JoinTicketGroup", map[string]any{"ticketId": "42"})
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, f.hub.NotifyTicketCreated(context.Background(), 7, "Broken keyboard"))

	event := readEvent(t, tech)
	assert.Equal(t, "TicketCreated", event.Type)

	var payload domain.TicketCreatedPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "7", payload.TicketID)
	assert.Equal(t, "Broken keyboard", payload.Title)

	assertNoEvent(t, customer)
}

func TestWebSocket_DisconnectStopsDelivery(t *testing.T) {
	f := newWSFixture(t)

	leaver := f.dial(t)
	stayer := f.dial(t)

	sendInvocation(t, leaver, "JoinTicketGroup", map[string]any{"ticketId": "42"})
	sendInvocation(t, stayer, "JoinTicketGroup", map[string]any{"ticketId": "42"})
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, leaver.Close())
	time.Sleep(100 * time.Millisecond)

	sendInvocation(t, stayer, "SendMessage", map[string]any{
		"ticketId":  "42",
		"userName":  "Bob",
		"userEmail": "bob@example.com",
		"message":   "anyone here?",
	})

	event := readEvent(t, stayer)
	assert.Equal(t, "ReceiveMessage", event.Type)
}
