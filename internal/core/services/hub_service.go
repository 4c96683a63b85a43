package services

import (
	"context"
	"log/slog"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-chat-backend/internal/core/errors"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
)

// HubService implements the messaging hub orchestration: it binds
// client-invoked operations to the group router and message store, and
// connection lifecycle events to the connection registry.
type HubService struct {
	registry ports.ConnectionRegistry
	router   ports.GroupRouter
	store    ports.MessageStore
	logger   *slog.Logger
}

// Ensure implementation matches the interface.
var _ ports.HubService = (*HubService)(nil)

// NewHubService creates the hub orchestration service.
func NewHubService(
	registry ports.ConnectionRegistry,
	router ports.GroupRouter,
	store ports.MessageStore,
	logger *slog.Logger,
) ports.HubService {
	return &HubService{
		registry: registry,
		router:   router,
		store:    store,
		logger:   logger.With("component", "hub_service"),
	}
}

// OnConnected registers a freshly accepted connection with the registry.
func (s *HubService) OnConnected(ctx context.Context, connectionID string) {
	s.registry.Register(connectionID)
	s.logger.Info("connection registered", "connection_id", connectionID)
}

// OnDisconnected unregisters the connection. An abrupt transport failure is
// handled exactly like a clean close; the reason only changes the log line.
func (s *HubService) OnDisconnected(ctx context.Context, connectionID string, reason error) {
	s.registry.Unregister(connectionID)

	if reason != nil {
		s.logger.Warn("connection dropped",
			"connection_id", connectionID,
			"reason", reason,
		)
		return
	}
	s.logger.Info("connection closed", "connection_id", connectionID)
}

// JoinTechnicianGroup subscribes the connection to the technicians group.
func (s *HubService) JoinTechnicianGroup(ctx context.Context, connectionID string) {
	s.router.Join(connectionID, domain.Technicians)
	s.logger.Debug("joined technician group", "connection_id", connectionID)
}

// JoinTicketGroup validates the ticket identifier and subscribes the
// connection to that ticket's chat group. A malformed identifier never
// creates a group.
func (s *HubService) JoinTicketGroup(ctx context.Context, connectionID, ticketID string) error {
	id, err := domain.ParseTicketID(ticketID)
	if err != nil {
		return apperrors.NewInvalidArgumentError(err)
	}

	s.router.Join(connectionID, domain.TicketGroup(id))
	s.logger.Debug("joined ticket group",
		"connection_id", connectionID,
		"ticket_id", id,
	)
	return nil
}

// SendMessage persists a chat message, then broadcasts it to the ticket's
// group. Write-then-notify is strict: if Append fails the message is dropped,
// no group member ever sees it, and the error surfaces to the caller only.
func (s *HubService) SendMessage(ctx context.Context, params ports.SendMessageParams) error {
	id, err := domain.ParseTicketID(params.TicketID)
	if err != nil {
		return apperrors.NewInvalidArgumentError(err)
	}

	message, err := domain.NewChatMessage(domain.ChatMessageParams{
		TicketID:    id,
		SenderName:  params.SenderName,
		SenderEmail: params.SenderEmail,
		Body:        params.Body,
	})
	if err != nil {
		return apperrors.NewInvalidArgumentError(err)
	}

	stored, err := s.store.Append(ctx, message)
	if err != nil {
		s.logger.Error("message append failed",
			"connection_id", params.ConnectionID,
			"ticket_id", id,
			"error", err,
		)
		return apperrors.NewPersistenceError(err)
	}

	s.router.Broadcast(domain.TicketGroup(id), domain.NewMessageEvent(stored))
	return nil
}

// SendSatisfactionSurvey broadcasts a one-shot survey prompt to the ticket's
// group. The prompt is transient and never persisted.
func (s *HubService) SendSatisfactionSurvey(ctx context.Context, ticketID, userEmail string) error {
	id, err := domain.ParseTicketID(ticketID)
	if err != nil {
		return apperrors.NewInvalidArgumentError(err)
	}
	if userEmail == "" {
		return apperrors.NewInvalidArgumentError(apperrors.ErrEmailRequired)
	}

	s.router.Broadcast(domain.TicketGroup(id), domain.NewSurveyEvent(id, userEmail))
	s.logger.Info("survey prompt sent",
		"ticket_id", id,
		"user_email", userEmail,
	)
	return nil
}

// NotifyTicketCreated fans the new-ticket notification out to every
// connection in the technicians group.
func (s *HubService) NotifyTicketCreated(ctx context.Context, ticketID int64, title string) error {
	if ticketID <= 0 {
		return apperrors.NewInvalidArgumentError(apperrors.ErrInvalidTicketID)
	}

	s.router.Broadcast(domain.Technicians, domain.NewTicketCreatedEvent(ticketID, title))
	s.logger.Info("ticket created notification sent", "ticket_id", ticketID)
	return nil
}

// ListMessages returns a ticket's chat history in replay order.
func (s *HubService) ListMessages(ctx context.Context, ticketID int64) ([]*domain.ChatMessage, error) {
	return s.store.ListByTicket(ctx, ticketID)
}
