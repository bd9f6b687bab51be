package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWebhookPayload_PreservesWireFieldNames(t *testing.T) {
	raw := `{
		"status": 200,
		"order_info": {
			"order_id": "ORD_1_001",
			"order_amount": 1000,
			"transaction_amount": 1050,
			"gateway": "edviron",
			"bank_reference": "REF1",
			"status": "SUCCESS",
			"payment_mode": "upi",
			"payemnt_details": "asha@upi",
			"Payment_message": "payment ok",
			"payment_time": "2026-08-29T10:30:00Z",
			"error_message": ""
		}
	}`

	var payload WebhookPayload
	assert.NoError(t, json.Unmarshal([]byte(raw), &payload))
	assert.Equal(t, "ORD_1_001", payload.OrderInfo.OrderID)
	assert.Equal(t, "asha@upi", payload.OrderInfo.PaymentDetails)
	assert.Equal(t, "payment ok", payload.OrderInfo.PaymentMessage)

	// Round trip keeps the misspelled keys on the wire
	out, err := json.Marshal(payload.OrderInfo)
	assert.NoError(t, err)
	assert.Contains(t, string(out), `"payemnt_details"`)
	assert.Contains(t, string(out), `"Payment_message"`)
}

func TestNormalizedStatus(t *testing.T) {
	info := WebhookOrderInfo{Status: "  SUCCESS "}
	assert.Equal(t, SettlementSuccess, info.NormalizedStatus())
}

func TestParsedPaymentTime(t *testing.T) {
	info := WebhookOrderInfo{PaymentTime: "2026-08-29T10:30:00Z"}
	parsed := info.ParsedPaymentTime()
	assert.NotNil(t, parsed)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC), parsed.UTC())

	assert.Nil(t, WebhookOrderInfo{}.ParsedPaymentTime())
	assert.Nil(t, WebhookOrderInfo{PaymentTime: "yesterday"}.ParsedPaymentTime())
}

func TestEventTypeForStatus(t *testing.T) {
	tests := []struct {
		status   SettlementStatus
		expected EventType
	}{
		{SettlementSuccess, EventPaymentSuccess},
		{SettlementFailed, EventPaymentFailed},
		{SettlementPending, EventPaymentPending},
		{SettlementProcessing, EventPaymentStatusUpdate},
		{SettlementCancelled, EventPaymentStatusUpdate},
		{"refunded", EventPaymentStatusUpdate},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, EventTypeForStatus(tt.status), "status %q", tt.status)
	}
}

func TestOrderStateFromSettlement(t *testing.T) {
	assert.Equal(t, OrderCompleted, OrderStateFromSettlement(SettlementSuccess))
	assert.Equal(t, OrderFailed, OrderStateFromSettlement(SettlementFailed))
	assert.Equal(t, OrderProcessing, OrderStateFromSettlement(SettlementProcessing))
	assert.Equal(t, OrderCancelled, OrderStateFromSettlement(SettlementCancelled))
	assert.Equal(t, OrderPending, OrderStateFromSettlement(SettlementPending))
	assert.Equal(t, OrderPending, OrderStateFromSettlement("refunded"))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = NewPagination(1, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = NewPagination(3, 10, 25)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)
}
