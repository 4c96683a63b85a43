package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-chat-backend/internal/core/errors"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound buffer per connection.
	sendBufferSize = 256
)

// Client is a middleman between one websocket connection and the hub. Each
// inbound operation is dispatched from the read pump, so operations on the
// same connection keep their arrival order.
type Client struct {
	// ID is the opaque connection identifier.
	ID string

	// The websocket connection.
	conn *websocket.Conn

	// Send is the buffered channel of outbound events, drained by WritePump.
	Send chan domain.Event

	// hub receives the operations this connection invokes.
	hub ports.HubService

	// closeOnce ensures the Send channel is only closed once.
	closeOnce sync.Once

	// logger for this client
	logger *slog.Logger
}

// NewClient creates a client for a freshly upgraded connection.
func NewClient(hub ports.HubService, conn *websocket.Conn, logger *slog.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		ID:     id,
		conn:   conn,
		Send:   make(chan domain.Event, sendBufferSize),
		hub:    hub,
		logger: logger.With("connection_id", id),
	}
}

// CloseSend safely closes the Send channel exactly once.
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// ReadPump pumps inbound client invocations from the websocket connection to
// the hub. It runs in its own goroutine; when it returns the connection is
// unregistered, graceful close and abrupt transport failure alike.
func (c *Client) ReadPump() {
	var reason error
	defer func() {
		c.hub.OnDisconnected(context.Background(), c.ID, reason)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				reason = err
			}
			break
		}

		c.handleInvocation(raw)
	}
}

// WritePump pumps events from the Send channel to the websocket connection.
// It runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The router closed the channel on unregister.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.writeJSON(event); err != nil {
				c.logger.Error("failed to write event", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// writeJSON writes one event to the websocket connection.
func (c *Client) writeJSON(event domain.Event) error {
	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(event); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// --- Inbound invocation handling ---

// invocation is the envelope for client -> server messages.
type invocation struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// sendMessagePayload carries a SendMessage invocation. The ticket id is a
// string on the wire; it is validated server-side.
type sendMessagePayload struct {
	TicketID  string `json:"ticketId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	Message   string `json:"message"`
}

// joinTicketPayload carries a JoinTicketGroup invocation.
type joinTicketPayload struct {
	TicketID string `json:"ticketId"`
}

// surveyPayload carries a SendSatisfactionSurvey invocation.
type surveyPayload struct {
	TicketID  string `json:"ticketId"`
	UserEmail string `json:"userEmail"`
}

// handleInvocation dispatches one inbound client message to the hub.
// Operation failures go back to this connection only, as an Error event.
func (c *Client) handleInvocation(raw []byte) {
	var inv invocation
	if err := json.Unmarshal(raw, &inv); err != nil {
		c.logger.Warn("failed to unmarshal invocation", "error", err)
		c.sendError(apperrors.NewBadRequestError(err, "Malformed invocation"))
		return
	}

	ctx := context.Background()

	switch inv.Type {
	case "SendMessage":
		var p sendMessagePayload
		if err := json.Unmarshal(inv.Payload, &p); err != nil {
			c.sendError(apperrors.NewBadRequestError(err, "Malformed SendMessage payload"))
			return
		}
		err := c.hub.SendMessage(ctx, ports.SendMessageParams{
			ConnectionID: c.ID,
			TicketID:     p.TicketID,
			SenderName:   p.UserName,
			SenderEmail:  p.UserEmail,
			Body:         p.Message,
		})
		if err != nil {
			c.sendError(err)
		}

	case "JoinTicketGroup":
		var p joinTicketPayload
		if err := json.Unmarshal(inv.Payload, &p); err != nil {
			c.sendError(apperrors.NewBadRequestError(err, "Malformed JoinTicketGroup payload"))
			return
		}
		if err := c.hub.JoinTicketGroup(ctx, c.ID, p.TicketID); err != nil {
			c.sendError(err)
		}

	case "JoinTechnicianGroup":
		c.hub.JoinTechnicianGroup(ctx, c.ID)

	case "SendSatisfactionSurvey":
		var p surveyPayload
		if err := json.Unmarshal(inv.Payload, &p); err != nil {
			c.sendError(apperrors.NewBadRequestError(err, "Malformed SendSatisfactionSurvey payload"))
			return
		}
		if err := c.hub.SendSatisfactionSurvey(ctx, p.TicketID, p.UserEmail); err != nil {
			c.sendError(err)
		}

	default:
		c.logger.Debug("received unknown invocation type", "type", inv.Type)
	}
}

// sendError queues an Error event for this connection only.
func (c *Client) sendError(err error) {
	code := "INTERNAL_ERROR"
	message := "An unexpected error occurred"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
	}

	select {
	case c.Send <- domain.NewErrorEvent(code, message):
	default:
		// Buffer full; the connection is stuck anyway.
	}
}
