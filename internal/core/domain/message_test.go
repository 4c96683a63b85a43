package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-chat-backend/internal/core/errors"
)

func validMessageParams() domain.ChatMessageParams {
	return domain.ChatMessageParams{
		TicketID:    42,
		SenderName:  "Alice",
		SenderEmail: "alice@example.com",
		Body:        "My printer is on fire",
	}
}

func TestNewChatMessage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.ChatMessageParams)
		wantErr error
	}{
		{
			name:   "valid message",
			mutate: func(p *domain.ChatMessageParams) {},
		},
		{
			name:    "zero ticket id",
			mutate:  func(p *domain.ChatMessageParams) { p.TicketID = 0 },
			wantErr: apperrors.ErrInvalidTicketID,
		},
		{
			name:    "negative ticket id",
			mutate:  func(p *domain.ChatMessageParams) { p.TicketID = -1 },
			wantErr: apperrors.ErrInvalidTicketID,
		},
		{
			name:    "missing sender name",
			mutate:  func(p *domain.ChatMessageParams) { p.SenderName = "   " },
			wantErr: apperrors.ErrSenderNameRequired,
		},
		{
			name:    "missing sender email",
			mutate:  func(p *domain.ChatMessageParams) { p.SenderEmail = "" },
			wantErr: apperrors.ErrSenderEmailRequired,
		},
		{
			name:    "malformed sender email",
			mutate:  func(p *domain.ChatMessageParams) { p.SenderEmail = "not-an-email" },
			wantErr: apperrors.ErrSenderEmailInvalid,
		},
		{
			name:    "empty body",
			mutate:  func(p *domain.ChatMessageParams) { p.Body = "" },
			wantErr: apperrors.ErrMessageBodyRequired,
		},
		{
			name:    "whitespace body",
			mutate:  func(p *domain.ChatMessageParams) { p.Body = "  \n\t " },
			wantErr: apperrors.ErrMessageBodyRequired,
		},
		{
			name: "body too long",
			mutate: func(p *domain.ChatMessageParams) {
				p.Body = strings.Repeat("a", domain.MaxMessageBodyLength+1)
			},
			wantErr: apperrors.ErrMessageBodyTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validMessageParams()
			tt.mutate(&params)

			msg, err := domain.NewChatMessage(params)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, msg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, msg)
			assert.Equal(t, params.TicketID, msg.TicketID)
			assert.Equal(t, params.SenderName, msg.SenderName)
			assert.Equal(t, params.SenderEmail, msg.SenderEmail)
			assert.Equal(t, params.Body, msg.Body)
			assert.Zero(t, msg.ID, "store assigns the id, not the factory")
			assert.WithinDuration(t, time.Now().UTC(), msg.SentAt, 2*time.Second)
		})
	}
}

func TestNewChatMessage_BodyAtLimit(t *testing.T) {
	params := validMessageParams()
	params.Body = strings.Repeat("a", domain.MaxMessageBodyLength)

	msg, err := domain.NewChatMessage(params)
	require.NoError(t, err)
	assert.Len(t, msg.Body, domain.MaxMessageBodyLength)
}
