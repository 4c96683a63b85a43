package domain

import (
	"strconv"
	"time"
)

// ReceiveMessagePayload is the ReceiveMessage push body. Field names match
// the wire contract the mobile and web clients already speak.
type ReceiveMessagePayload struct {
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	Message   string `json:"message"`
}

// SurveyPayload is the ShowSatisfactionSurvey push body. The ticket id is a
// string on the wire, mirroring the client-invocation side of the protocol.
type SurveyPayload struct {
	TicketID  string `json:"ticketId"`
	UserEmail string `json:"userEmail"`
}

// TicketCreatedPayload is the TicketCreated push body, fanned out to the
// technicians group when the surrounding tracker creates a ticket.
type TicketCreatedPayload struct {
	TicketID string `json:"ticketId"`
	Title    string `json:"title"`
}

// ErrorPayload carries an operation failure back to the invoking connection.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessageEvent builds the ReceiveMessage event for a persisted message.
func NewMessageEvent(message *ChatMessage) Event {
	return Event{
		Type: EventReceiveMessage,
		Payload: ReceiveMessagePayload{
			UserName:  message.SenderName,
			UserEmail: message.SenderEmail,
			Message:   message.Body,
		},
	}
}

// NewSurveyEvent builds the ShowSatisfactionSurvey event.
func NewSurveyEvent(ticketID int64, userEmail string) Event {
	return Event{
		Type: EventShowSatisfactionSurvey,
		Payload: SurveyPayload{
			TicketID:  strconv.FormatInt(ticketID, 10),
			UserEmail: userEmail,
		},
	}
}

// NewTicketCreatedEvent builds the TicketCreated event.
func NewTicketCreatedEvent(ticketID int64, title string) Event {
	return Event{
		Type: EventTicketCreated,
		Payload: TicketCreatedPayload{
			TicketID: strconv.FormatInt(ticketID, 10),
			Title:    title,
		},
	}
}

// NewErrorEvent builds the Error event sent only to the invoking connection.
func NewErrorEvent(code, message string) Event {
	return Event{
		Type: EventError,
		Payload: ErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// ChatMessageSnapshot matches the API response shape for chat history replay.
type ChatMessageSnapshot struct {
	ID        string `json:"id"`
	TicketID  int64  `json:"ticketId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	Message   string `json:"message"`
	SentAt    string `json:"sentAt"`
}

// NewChatMessageSnapshot builds a snapshot from a persisted chat message.
func NewChatMessageSnapshot(message *ChatMessage) ChatMessageSnapshot {
	return ChatMessageSnapshot{
		ID:        strconv.FormatInt(message.ID, 10),
		TicketID:  message.TicketID,
		UserName:  message.SenderName,
		UserEmail: message.SenderEmail,
		Message:   message.Body,
		SentAt:    message.SentAt.UTC().Format(time.RFC3339Nano),
	}
}
