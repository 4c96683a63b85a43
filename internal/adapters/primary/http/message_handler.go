package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-chat-backend/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
)

// MessageHandler exposes the persisted chat history and the survey
// trigger over plain HTTP, for clients that are not connected over
// the WebSocket transport.
type MessageHandler struct {
	hub          ports.HubService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(hub ports.HubService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		hub:          hub,
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
	}
}

// ListMessages handles GET /api/v1/tickets/{ticketID}/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ticketID, err := domain.ParseTicketID(chi.URLParam(r, "ticketID"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	messages, err := h.hub.ListMessages(r.Context(), ticketID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	snapshots := make([]domain.ChatMessageSnapshot, 0, len(messages))
	for _, msg := range messages {
		snapshots = append(snapshots, domain.NewChatMessageSnapshot(msg))
	}

	WriteList(w, snapshots)
}

// SendSurveyRequest is the payload for triggering a satisfaction survey
type SendSurveyRequest struct {
	UserEmail string `json:"userEmail"`
}

// SendSurvey handles POST /api/v1/tickets/{ticketID}/survey
func (h *MessageHandler) SendSurvey(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	req, err := validation.DecodeAndValidate[SendSurveyRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	v := validation.NewValidator()
	v.Required("userEmail", req.UserEmail).Email("userEmail", req.UserEmail)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	if err := h.hub.SendSatisfactionSurvey(r.Context(), ticketID, req.UserEmail); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteAccepted(w, "Survey prompt dispatched")
}
