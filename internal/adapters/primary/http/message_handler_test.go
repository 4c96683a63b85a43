package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-chat-backend/internal/core/errors"
	"github.com/lorrc/ticket-chat-backend/internal/core/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMessageRouter(hub *mocks.MockHubService) *chi.Mux {
	handler := NewMessageHandler(hub, testLogger())
	r := chi.NewRouter()
	r.Route("/api/v1/tickets/{ticketID}", func(r chi.Router) {
		r.Get("/messages", handler.ListMessages)
		r.Post("/survey", handler.SendSurvey)
	})
	return r
}

func TestMessageHandler_ListMessages(t *testing.T) {
	hub := mocks.NewMockHubService()
	router := newMessageRouter(hub)

	sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hub.On("ListMessages", mock.Anything, int64(42)).Return([]*domain.ChatMessage{
		{ID: 1, TicketID: 42, SenderName: "Alice", SenderEmail: "alice@example.com", Body: "first", SentAt: sentAt},
		{ID: 2, TicketID: 42, SenderName: "Bob", SenderEmail: "bob@example.com", Body: "second", SentAt: sentAt.Add(time.Second)},
	}, nil).Once()

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/tickets/42/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp ListResponse[domain.ChatMessageSnapshot]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "1", resp.Data[0].ID)
	assert.Equal(t, "Alice", resp.Data[0].UserName)
	assert.Equal(t, "first", resp.Data[0].Message)
	assert.Equal(t, "second", resp.Data[1].Message)

	hub.AssertExpectations(t)
}

func TestMessageHandler_ListMessages_EmptyHistory(t *testing.T) {
	hub := mocks.NewMockHubService()
	router := newMessageRouter(hub)

	hub.On("ListMessages", mock.Anything, int64(7)).Return([]*domain.ChatMessage{}, nil).Once()

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/tickets/7/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp ListResponse[domain.ChatMessageSnapshot]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Count)
}

func TestMessageHandler_ListMessages_InvalidTicketID(t *testing.T) {
	hub := mocks.NewMockHubService()
	router := newMessageRouter(hub)

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/tickets/abc/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	hub.AssertNotCalled(t, "ListMessages", mock.Anything, mock.Anything)
}

func TestMessageHandler_ListMessages_StoreFailure(t *testing.T) {
	hub := mocks.NewMockHubService()
	router := newMessageRouter(hub)

	hub.On("ListMessages", mock.Anything, int64(42)).
		Return(nil, errors.New("connection refused")).Once()

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/tickets/42/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusInternalServerError, rec.Code)
}

func TestMessageHandler_SendSurvey(t *testing.T) {
	hub := mocks.NewMockHubService()
	router := newMessageRouter(hub)

	hub.On("SendSatisfactionSurvey", mock.Anything, "42", "alice@example.com").
		Return(nil).Once()

	body := `{"userEmail": "alice@example.com"}`
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/tickets/42/survey", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusAccepted, rec.Code)
	hub.AssertExpectations(t)
}

func TestMessageHandler_SendSurvey_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{}`},
		{"malformed email", `{"userEmail": "not-an-email"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := mocks.NewMockHubService()
			router := newMessageRouter(hub)

			req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/tickets/42/survey", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
			hub.AssertNotCalled(t, "SendSatisfactionSurvey", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMessageHandler_SendSurvey_InvalidTicketID(t *testing.T) {
	hub := mocks.NewMockHubService()
	router := newMessageRouter(hub)

	hub.On("SendSatisfactionSurvey", mock.Anything, "abc", "alice@example.com").
		Return(apperrors.NewInvalidArgumentError(apperrors.ErrInvalidTicketID)).Once()

	body := `{"userEmail": "alice@example.com"}`
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/tickets/abc/survey", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "INVALID_ARGUMENT", resp.Code)
}
