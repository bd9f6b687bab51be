package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"school-payments-service/internal/models"
	"school-payments-service/internal/repository"
)

// MockOrderRepository is a mock implementation of OrderRepositoryInterface
type MockOrderRepository struct {
	mock.Mock
}

// Ensure MockOrderRepository implements the interface
var _ repository.OrderRepositoryInterface = (*MockOrderRepository)(nil)

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil && order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByCustomOrderID(ctx context.Context, customOrderID string) (*models.Order, error) {
	args := m.Called(ctx, customOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderStatusField(ctx context.Context, id uuid.UUID, status models.OrderState) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderStatusByCollectID(ctx context.Context, collectID uuid.UUID) (*models.OrderStatus, error) {
	args := m.Called(ctx, collectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderStatus), args.Error(1)
}

func (m *MockOrderRepository) UpsertOrderStatus(ctx context.Context, status *models.OrderStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

// MockWebhookRepository is a mock implementation of WebhookRepositoryInterface
type MockWebhookRepository struct {
	mock.Mock
}

// Ensure MockWebhookRepository implements the interface
var _ repository.WebhookRepositoryInterface = (*MockWebhookRepository)(nil)

func (m *MockWebhookRepository) CreateLog(ctx context.Context, log *models.WebhookLog) error {
	args := m.Called(ctx, log)
	if args.Error(0) == nil && log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockWebhookRepository) GetLogByID(ctx context.Context, id uuid.UUID) (*models.WebhookLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WebhookLog), args.Error(1)
}

func (m *MockWebhookRepository) GetLogByWebhookID(ctx context.Context, webhookID string) (*models.WebhookLog, error) {
	args := m.Called(ctx, webhookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WebhookLog), args.Error(1)
}

func (m *MockWebhookRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWebhookRepository) MarkProcessed(ctx context.Context, id uuid.UUID, status models.ProcessingStatus, message string) error {
	args := m.Called(ctx, id, status, message)
	return args.Error(0)
}

func (m *MockWebhookRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func (m *MockWebhookRepository) ListLogsByOrder(ctx context.Context, orderID string) ([]models.WebhookLog, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]models.WebhookLog), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepositoryInterface
type MockTransactionRepository struct {
	mock.Mock
}

// Ensure MockTransactionRepository implements the interface
var _ repository.TransactionRepositoryInterface = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionView, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.TransactionView), args.Get(1).(int64), args.Error(2)
}
