package http

import (
	"log/slog"
	"net/http"

	"github.com/lorrc/ticket-chat-backend/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
)

// NotificationHandler receives ticket lifecycle events from the ticketing
// service and forwards them to connected technicians.
type NotificationHandler struct {
	hub          ports.HubService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(hub ports.HubService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		hub:          hub,
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
	}
}

// NewTicketRequest is the payload announcing a freshly created ticket
type NewTicketRequest struct {
	TicketID int64  `json:"ticketId"`
	Title    string `json:"title"`
}

// NewTicket handles POST /api/v1/notifications/new-ticket
func (h *NotificationHandler) NewTicket(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[NewTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	v := validation.NewValidator()
	v.Min("ticketId", req.TicketID, 1)
	v.Required("title", req.Title)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	if err := h.hub.NotifyTicketCreated(r.Context(), req.TicketID, req.Title); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteAccepted(w, "Notification dispatched")
}
