package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-payments-service/internal/models"
)

// WebhookRepositoryInterface defines webhook audit log persistence operations
type WebhookRepositoryInterface interface {
	CreateLog(ctx context.Context, log *models.WebhookLog) error
	GetLogByID(ctx context.Context, id uuid.UUID) (*models.WebhookLog, error)
	GetLogByWebhookID(ctx context.Context, webhookID string) (*models.WebhookLog, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkProcessed(ctx context.Context, id uuid.UUID, status models.ProcessingStatus, message string) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	ListLogsByOrder(ctx context.Context, orderID string) ([]models.WebhookLog, error)
}

// WebhookRepository handles webhook log data operations
type WebhookRepository struct {
	db *gorm.DB
}

// NewWebhookRepository creates a new webhook repository
func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

// CreateLog inserts a webhook audit record
func (r *WebhookRepository) CreateLog(ctx context.Context, log *models.WebhookLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetLogByID gets a webhook log by ID
func (r *WebhookRepository) GetLogByID(ctx context.Context, id uuid.UUID) (*models.WebhookLog, error) {
	var log models.WebhookLog
	err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetLogByWebhookID gets a webhook log by its external webhook identifier
func (r *WebhookRepository) GetLogByWebhookID(ctx context.Context, webhookID string) (*models.WebhookLog, error) {
	var log models.WebhookLog
	err := r.db.WithContext(ctx).Where("webhook_id = ?", webhookID).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// MarkProcessing moves a webhook log into the processing state
func (r *WebhookRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.WebhookLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": models.WebhookProcessing,
			"updated_at":        time.Now(),
		}).Error
}

// MarkProcessed records a terminal outcome and stamps the processed time
func (r *WebhookRepository) MarkProcessed(ctx context.Context, id uuid.UUID, status models.ProcessingStatus, message string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.WebhookLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": status,
			"response_message":  message,
			"processed_at":      &now,
			"updated_at":        now,
		}).Error
}

// MarkFailed records a processing failure with its error message
func (r *WebhookRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.WebhookLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": models.WebhookFailed,
			"error_message":     errMsg,
			"retry_count":       gorm.Expr("retry_count + 1"),
			"processed_at":      &now,
			"updated_at":        now,
		}).Error
}

// ListLogsByOrder lists webhook deliveries for an order, newest first
func (r *WebhookRepository) ListLogsByOrder(ctx context.Context, orderID string) ([]models.WebhookLog, error) {
	var logs []models.WebhookLog
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("received_at DESC").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
