package domain

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/lorrc/ticket-chat-backend/internal/core/errors"
)

// MaxMessageBodyLength caps a single chat message body.
const MaxMessageBodyLength = 2000

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ChatMessage is an immutable chat record scoped to a ticket. ID is assigned
// by the message store on append and doubles as the deterministic tie-break
// when two messages for the same ticket carry an identical timestamp.
type ChatMessage struct {
	ID          int64
	TicketID    int64
	SenderName  string
	SenderEmail string
	Body        string
	SentAt      time.Time
}

// ChatMessageParams defines the required input for creating a chat message.
type ChatMessageParams struct {
	TicketID    int64
	SenderName  string
	SenderEmail string
	Body        string
}

// NewChatMessage is a factory function to create a valid chat message,
// stamped with the current server time.
func NewChatMessage(params ChatMessageParams) (*ChatMessage, error) {
	if params.TicketID <= 0 {
		return nil, apperrors.ErrInvalidTicketID
	}
	if strings.TrimSpace(params.SenderName) == "" {
		return nil, apperrors.ErrSenderNameRequired
	}
	if strings.TrimSpace(params.SenderEmail) == "" {
		return nil, apperrors.ErrSenderEmailRequired
	}
	if !emailRegex.MatchString(params.SenderEmail) {
		return nil, apperrors.ErrSenderEmailInvalid
	}
	if strings.TrimSpace(params.Body) == "" {
		return nil, apperrors.ErrMessageBodyRequired
	}
	if len(params.Body) > MaxMessageBodyLength {
		return nil, apperrors.ErrMessageBodyTooLong
	}

	return &ChatMessage{
		TicketID:    params.TicketID,
		SenderName:  params.SenderName,
		SenderEmail: params.SenderEmail,
		Body:        params.Body,
		SentAt:      time.Now().UTC(),
	}, nil
}
