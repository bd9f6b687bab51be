package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"school-payments-service/internal/cache"
	"school-payments-service/internal/models"
	"school-payments-service/internal/repository"
)

// WebhookMeta carries the transport-level details of a webhook delivery for
// the audit trail. RawPayload is the body exactly as delivered; the log
// stores it instead of a re-serialization of the typed struct so fields
// outside the schema survive.
type WebhookMeta struct {
	SourceIP   string
	Headers    map[string]interface{}
	RawPayload models.JSONB
}

// WebhookServiceInterface defines the reconciliation entry point
type WebhookServiceInterface interface {
	ProcessWebhook(ctx context.Context, payload *models.WebhookPayload, meta WebhookMeta) (*models.WebhookResult, error)
}

// WebhookService reconciles gateway webhook deliveries onto orders.
//
// Every delivery is logged before any mutation, so the audit trail survives
// processing failures. The sequence is not transactional: a crash between the
// settlement upsert and the terminal log write leaves the log non-terminal
// while the settlement is already recorded.
type WebhookService struct {
	orders      repository.OrderRepositoryInterface
	webhooks    repository.WebhookRepositoryInterface
	statusCache *cache.StatusCache
	logger      *logrus.Entry
}

// NewWebhookService creates a new webhook service
func NewWebhookService(orders repository.OrderRepositoryInterface, webhooks repository.WebhookRepositoryInterface, statusCache *cache.StatusCache, logger *logrus.Entry) *WebhookService {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &WebhookService{
		orders:      orders,
		webhooks:    webhooks,
		statusCache: statusCache,
		logger:      logger,
	}
}

// ProcessWebhook runs one delivery through the reconciliation state machine:
// log in received, advance to processing, resolve the order, overwrite its
// settlement record (last write wins), patch the order's coarse status, then
// mark the log terminal.
func (s *WebhookService) ProcessWebhook(ctx context.Context, payload *models.WebhookPayload, meta WebhookMeta) (*models.WebhookResult, error) {
	info := payload.OrderInfo
	settlement := info.NormalizedStatus()

	rawPayload := meta.RawPayload
	if rawPayload == nil {
		rawPayload = toJSONB(payload)
	}
	log := &models.WebhookLog{
		WebhookID:        uuid.New().String(),
		EventType:        models.EventTypeForStatus(settlement),
		OrderID:          info.OrderID,
		Payload:          rawPayload,
		StatusCode:       payload.Status,
		ProcessingStatus: models.WebhookReceived,
		SourceIP:         meta.SourceIP,
		Headers:          models.JSONB(meta.Headers),
	}

	if err := s.webhooks.CreateLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to record webhook: %w", err)
	}

	result, err := s.reconcile(ctx, log, info, settlement)
	if err != nil {
		s.markFailedBestEffort(ctx, log.WebhookID, err)
		return nil, err
	}
	return result, nil
}

// reconcile performs every step after the initial audit write. Any error it
// returns is caught exactly once by the caller, which marks the log failed.
func (s *WebhookService) reconcile(ctx context.Context, log *models.WebhookLog, info models.WebhookOrderInfo, settlement models.SettlementStatus) (*models.WebhookResult, error) {
	if err := s.webhooks.MarkProcessing(ctx, log.ID); err != nil {
		return nil, fmt.Errorf("failed to advance webhook log: %w", err)
	}

	if settlement == "" {
		if err := s.webhooks.MarkProcessed(ctx, log.ID, models.WebhookIgnored, "no settlement status in payload"); err != nil {
			return nil, fmt.Errorf("failed to finalize webhook log: %w", err)
		}
		return &models.WebhookResult{
			WebhookLogID:     log.WebhookID,
			OrderID:          info.OrderID,
			ProcessingStatus: models.WebhookIgnored,
		}, nil
	}

	order, err := s.orders.GetOrderByCustomOrderID(ctx, info.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, info.OrderID)
		}
		return nil, fmt.Errorf("failed to resolve order %s: %w", info.OrderID, err)
	}

	status := settlementFromPayload(order, info, settlement)
	if err := s.orders.UpsertOrderStatus(ctx, status); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBankReference, info.BankReference)
		}
		return nil, fmt.Errorf("failed to write settlement for %s: %w", info.OrderID, err)
	}

	orderUpdated := false
	coarse := models.OrderStateFromSettlement(settlement)
	if order.Status != coarse {
		if err := s.orders.UpdateOrderStatusField(ctx, order.ID, coarse); err != nil {
			return nil, fmt.Errorf("failed to update order status for %s: %w", info.OrderID, err)
		}
		orderUpdated = true
	}

	if err := s.webhooks.MarkProcessed(ctx, log.ID, models.WebhookProcessed, "Webhook processed successfully"); err != nil {
		return nil, fmt.Errorf("failed to finalize webhook log: %w", err)
	}

	if s.statusCache != nil {
		if err := s.statusCache.Invalidate(ctx, order.CustomOrderID); err != nil {
			s.logger.WithError(err).WithField("custom_order_id", order.CustomOrderID).
				Debug("status cache invalidation failed")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"webhook_id":      log.WebhookID,
		"custom_order_id": order.CustomOrderID,
		"event_type":      log.EventType,
		"status":          settlement,
	}).Info("webhook reconciled")

	return &models.WebhookResult{
		WebhookLogID:     log.WebhookID,
		OrderID:          order.CustomOrderID,
		ProcessingStatus: models.WebhookProcessed,
		OrderUpdated:     orderUpdated,
	}, nil
}

// markFailedBestEffort re-loads the log by its webhook id and marks it
// failed. A failure of this secondary write is only logged; the original
// error still propagates to the caller.
func (s *WebhookService) markFailedBestEffort(ctx context.Context, webhookID string, cause error) {
	log, err := s.webhooks.GetLogByWebhookID(ctx, webhookID)
	if err != nil {
		s.logger.WithError(err).WithField("webhook_id", webhookID).
			Error("could not re-load webhook log to mark it failed")
		return
	}
	if err := s.webhooks.MarkFailed(ctx, log.ID, cause.Error()); err != nil {
		s.logger.WithError(err).WithField("webhook_id", webhookID).
			Error("could not mark webhook log failed")
	}
}

// settlementFromPayload maps the wire payload onto a full OrderStatus row.
// Every settlement field comes from the payload; nothing is merged from a
// previous row.
func settlementFromPayload(order *models.Order, info models.WebhookOrderInfo, settlement models.SettlementStatus) *models.OrderStatus {
	errMsg := info.ErrorMessage
	if errMsg == "" {
		errMsg = models.ErrorMessageNone
	}

	var bankRef *string
	if info.BankReference != "" {
		ref := info.BankReference
		bankRef = &ref
	}

	gw := models.GatewayName(info.Gateway)
	if info.Gateway == "" {
		gw = order.GatewayName
	}

	return &models.OrderStatus{
		CollectID:         order.ID,
		OrderAmount:       info.OrderAmount,
		TransactionAmount: info.TransactionAmount,
		PaymentMode:       models.PaymentMode(info.PaymentMode),
		PaymentDetails:    info.PaymentDetails,
		BankReference:     bankRef,
		PaymentMessage:    info.PaymentMessage,
		Status:            settlement,
		ErrorMessage:      errMsg,
		PaymentTime:       info.ParsedPaymentTime(),
		Gateway:           gw,
		CustomOrderID:     order.CustomOrderID,
	}
}

// toJSONB round-trips a value through JSON into the jsonb column type
func toJSONB(v interface{}) models.JSONB {
	data, err := json.Marshal(v)
	if err != nil {
		return models.JSONB{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return models.JSONB{}
	}
	return models.JSONB(m)
}
