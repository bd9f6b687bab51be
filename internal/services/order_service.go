package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"school-payments-service/internal/cache"
	"school-payments-service/internal/gateway"
	"school-payments-service/internal/models"
	"school-payments-service/internal/repository"
)

// OrderServiceInterface defines order lifecycle operations
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error)
	GetByCustomOrderID(ctx context.Context, customOrderID string) (*models.Order, error)
	GetTransactionStatus(ctx context.Context, customOrderID string) (*models.OrderStatusResponse, error)
}

// OrderService handles order creation and status lookup
type OrderService struct {
	orders      repository.OrderRepositoryInterface
	gateways    *gateway.Factory
	statusCache *cache.StatusCache
	logger      *logrus.Entry
}

// NewOrderService creates a new order service
func NewOrderService(orders repository.OrderRepositoryInterface, gateways *gateway.Factory, statusCache *cache.StatusCache, logger *logrus.Entry) *OrderService {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &OrderService{
		orders:      orders,
		gateways:    gateways,
		statusCache: statusCache,
		logger:      logger,
	}
}

// generateCustomOrderID builds a human-readable order identifier. Timestamp
// plus a small random suffix is best-effort uniqueness; a collision surfaces
// as ErrDuplicateOrder rather than being retried.
func generateCustomOrderID() string {
	return fmt.Sprintf("ORD_%d_%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// CreateOrder validates the request, persists a pending order, then raises a
// collect request with the gateway. Gateway failures leave the order pending;
// creation itself never fails on them.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, ErrInvalidAmount
	}
	if !models.IsValidGateway(req.GatewayName) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGateway, req.GatewayName)
	}

	order := &models.Order{
		CustomOrderID: generateCustomOrderID(),
		SchoolID:      req.SchoolID,
		TrusteeID:     req.TrusteeID,
		StudentInfo:   req.StudentInfo,
		GatewayName:   req.GatewayName,
		OrderAmount:   req.Amount,
		Status:        models.OrderPending,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w (%s)", ErrDuplicateOrder, order.CustomOrderID)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"custom_order_id": order.CustomOrderID,
		"school_id":       order.SchoolID,
		"gateway":         order.GatewayName,
		"amount":          order.OrderAmount,
	}).Info("order created")

	resp := &models.CreateOrderResponse{
		OrderID:       order.ID.String(),
		CustomOrderID: order.CustomOrderID,
		Status:        string(order.Status),
	}

	if s.gateways != nil {
		s.raiseCollectRequest(ctx, order, req.CallbackURL, resp)
	}
	return resp, nil
}

// raiseCollectRequest asks the gateway for a hosted payment URL and records
// the result on the order. Failures are logged and the order stays pending.
func (s *OrderService) raiseCollectRequest(ctx context.Context, order *models.Order, callbackURL string, resp *models.CreateOrderResponse) {
	client, err := s.gateways.ClientFor(order.GatewayName)
	if err != nil {
		s.logger.WithError(err).WithField("gateway", order.GatewayName).
			Warn("no gateway client, order stays pending")
		return
	}

	collect, err := client.CreateCollectRequest(ctx, &gateway.CollectRequest{
		SchoolID:      order.SchoolID,
		TrusteeID:     order.TrusteeID,
		CustomOrderID: order.CustomOrderID,
		Amount:        order.OrderAmount,
		StudentName:   order.StudentInfo.Name,
		StudentEmail:  order.StudentInfo.Email,
		CallbackURL:   callbackURL,
	})
	if err != nil {
		s.logger.WithError(err).WithField("custom_order_id", order.CustomOrderID).
			Warn("collect request failed, order stays pending")
		return
	}

	order.CollectRequestID = collect.CollectRequestID
	order.PaymentURL = collect.PaymentURL
	order.APIResponse = models.JSONB(collect.RawResponse)
	order.Status = models.OrderProcessing

	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		s.logger.WithError(err).WithField("custom_order_id", order.CustomOrderID).
			Error("failed to record collect request on order")
		return
	}

	resp.CollectRequestID = collect.CollectRequestID
	resp.PaymentURL = collect.PaymentURL
	resp.Status = string(order.Status)
}

// GetByCustomOrderID gets an order by its human-readable identifier
func (s *OrderService) GetByCustomOrderID(ctx context.Context, customOrderID string) (*models.Order, error) {
	order, err := s.orders.GetOrderByCustomOrderID(ctx, customOrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetTransactionStatus composes the order with its settlement record into a
// flat status view. Served from the cache when warm.
func (s *OrderService) GetTransactionStatus(ctx context.Context, customOrderID string) (*models.OrderStatusResponse, error) {
	if s.statusCache != nil {
		if cached, err := s.statusCache.Get(ctx, customOrderID); err == nil && cached != nil {
			return cached, nil
		}
	}

	order, err := s.GetByCustomOrderID(ctx, customOrderID)
	if err != nil {
		return nil, err
	}

	resp := &models.OrderStatusResponse{
		CustomOrderID:     order.CustomOrderID,
		OrderID:           order.ID.String(),
		SchoolID:          order.SchoolID,
		StudentInfo:       order.StudentInfo,
		GatewayName:       order.GatewayName,
		OrderAmount:       order.OrderAmount,
		TransactionAmount: order.OrderAmount,
		Status:            string(order.Status),
		CreatedAt:         order.CreatedAt,
	}

	status, err := s.orders.GetOrderStatusByCollectID(ctx, order.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if status != nil {
		resp.Status = string(status.Status)
		resp.TransactionAmount = status.TransactionAmount
		resp.PaymentMode = string(status.PaymentMode)
		resp.PaymentMessage = status.PaymentMessage
		resp.PaymentTime = status.PaymentTime
		if status.BankReference != nil {
			resp.BankReference = *status.BankReference
		}
	}

	if s.statusCache != nil {
		if err := s.statusCache.Set(ctx, customOrderID, resp); err != nil {
			s.logger.WithError(err).Debug("status cache write failed")
		}
	}
	return resp, nil
}
