package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus tracks the lifecycle of a received webhook
type ProcessingStatus string

const (
	WebhookReceived   ProcessingStatus = "received"
	WebhookProcessing ProcessingStatus = "processing"
	WebhookProcessed  ProcessingStatus = "processed"
	WebhookFailed     ProcessingStatus = "failed"
	WebhookIgnored    ProcessingStatus = "ignored"
)

// EventType classifies a webhook by the settlement status it carries
type EventType string

const (
	EventPaymentSuccess      EventType = "payment_success"
	EventPaymentFailed       EventType = "payment_failed"
	EventPaymentPending      EventType = "payment_pending"
	EventPaymentStatusUpdate EventType = "payment_status_update"
)

// EventTypeForStatus derives the event classification from a normalized
// settlement status
func EventTypeForStatus(status SettlementStatus) EventType {
	switch status {
	case SettlementSuccess:
		return EventPaymentSuccess
	case SettlementFailed:
		return EventPaymentFailed
	case SettlementPending:
		return EventPaymentPending
	default:
		return EventPaymentStatusUpdate
	}
}

// WebhookLog is the audit record for every webhook delivery, written before
// any reconciliation work begins so failed deliveries remain traceable.
// Rows are mutated in place as processing advances and never deleted.
type WebhookLog struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WebhookID        string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_webhook_logs_webhook_id" json:"webhookId"`
	EventType        EventType        `gorm:"type:varchar(50);not null;index:idx_webhook_logs_event" json:"eventType"`
	OrderID          string           `gorm:"type:varchar(255);index:idx_webhook_logs_order" json:"orderId"`
	Payload          JSONB            `gorm:"type:jsonb;not null" json:"payload"`
	StatusCode       int              `json:"statusCode"`
	ProcessingStatus ProcessingStatus `gorm:"type:varchar(20);not null;default:'received';index:idx_webhook_logs_status" json:"processingStatus"`
	ErrorMessage     string           `gorm:"type:text" json:"errorMessage,omitempty"`
	ResponseMessage  string           `gorm:"type:text" json:"responseMessage,omitempty"`
	SourceIP         string           `gorm:"type:varchar(64)" json:"sourceIp,omitempty"`
	Headers          JSONB            `gorm:"type:jsonb" json:"headers,omitempty"`
	RetryCount       int              `gorm:"default:0" json:"retryCount"`
	ReceivedAt       time.Time        `gorm:"default:CURRENT_TIMESTAMP;index:idx_webhook_logs_received" json:"receivedAt"`
	ProcessedAt      *time.Time       `json:"processedAt,omitempty"`
	CreatedAt        time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt        time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for WebhookLog
func (WebhookLog) TableName() string {
	return "webhook_logs"
}

// WebhookOrderInfo is the order_info block of the gateway webhook payload.
// Field names follow the gateway's wire contract verbatim, including the
// misspelled payemnt_details key.
type WebhookOrderInfo struct {
	OrderID           string  `json:"order_id" binding:"required"`
	OrderAmount       float64 `json:"order_amount"`
	TransactionAmount float64 `json:"transaction_amount"`
	Gateway           string  `json:"gateway"`
	BankReference     string  `json:"bank_reference"`
	Status            string  `json:"status"`
	PaymentMode       string  `json:"payment_mode"`
	PaymentDetails    string  `json:"payemnt_details"`
	PaymentMessage    string  `json:"Payment_message"`
	PaymentTime       string  `json:"payment_time"`
	ErrorMessage      string  `json:"error_message"`
}

// WebhookPayload is the envelope the gateway posts to /webhook
type WebhookPayload struct {
	Status    int              `json:"status"`
	OrderInfo WebhookOrderInfo `json:"order_info" binding:"required"`
}

// NormalizedStatus lower-cases and trims the wire settlement status
func (o WebhookOrderInfo) NormalizedStatus() SettlementStatus {
	return SettlementStatus(strings.ToLower(strings.TrimSpace(o.Status)))
}

// ParsedPaymentTime parses the wire payment_time, accepting RFC3339 with or
// without sub-second precision. Returns nil when absent or unparseable.
func (o WebhookOrderInfo) ParsedPaymentTime() *time.Time {
	if o.PaymentTime == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, o.PaymentTime); err == nil {
			return &t
		}
	}
	return nil
}
