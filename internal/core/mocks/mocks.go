package mocks

import (
	"context"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockMessageStore is a mock implementation of ports.MessageStore
type MockMessageStore struct {
	mock.Mock
}

func NewMockMessageStore() *MockMessageStore {
	return &MockMessageStore{}
}

func (m *MockMessageStore) Append(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessage), args.Error(1)
}

func (m *MockMessageStore) ListByTicket(ctx context.Context, ticketID int64) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}

// MockConnectionRegistry is a mock implementation of ports.ConnectionRegistry
type MockConnectionRegistry struct {
	mock.Mock
}

func NewMockConnectionRegistry() *MockConnectionRegistry {
	return &MockConnectionRegistry{}
}

func (m *MockConnectionRegistry) Register(connectionID string) {
	m.Called(connectionID)
}

func (m *MockConnectionRegistry) Unregister(connectionID string) {
	m.Called(connectionID)
}

// MockGroupRouter is a mock implementation of ports.GroupRouter
type MockGroupRouter struct {
	mock.Mock
}

func NewMockGroupRouter() *MockGroupRouter {
	return &MockGroupRouter{}
}

func (m *MockGroupRouter) Join(connectionID string, group domain.Group) {
	m.Called(connectionID, group)
}

func (m *MockGroupRouter) Leave(connectionID string, group domain.Group) {
	m.Called(connectionID, group)
}

func (m *MockGroupRouter) Broadcast(group domain.Group, event domain.Event) {
	m.Called(group, event)
}

// MockHubService is a mock implementation of ports.HubService
type MockHubService struct {
	mock.Mock
}

func NewMockHubService() *MockHubService {
	return &MockHubService{}
}

func (m *MockHubService) OnConnected(ctx context.Context, connectionID string) {
	m.Called(ctx, connectionID)
}

func (m *MockHubService) OnDisconnected(ctx context.Context, connectionID string, reason error) {
	m.Called(ctx, connectionID, reason)
}

func (m *MockHubService) JoinTechnicianGroup(ctx context.Context, connectionID string) {
	m.Called(ctx, connectionID)
}

func (m *MockHubService) JoinTicketGroup(ctx context.Context, connectionID, ticketID string) error {
	args := m.Called(ctx, connectionID, ticketID)
	return args.Error(0)
}

func (m *MockHubService) SendMessage(ctx context.Context, params ports.SendMessageParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockHubService) SendSatisfactionSurvey(ctx context.Context, ticketID, userEmail string) error {
	args := m.Called(ctx, ticketID, userEmail)
	return args.Error(0)
}

func (m *MockHubService) NotifyTicketCreated(ctx context.Context, ticketID int64, title string) error {
	args := m.Called(ctx, ticketID, title)
	return args.Error(0)
}

func (m *MockHubService) ListMessages(ctx context.Context, ticketID int64) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}
