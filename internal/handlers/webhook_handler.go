package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"school-payments-service/internal/models"
	"school-payments-service/internal/services"
)

// WebhookHandler handles inbound gateway webhook deliveries
type WebhookHandler struct {
	service services.WebhookServiceInterface
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(service services.WebhookServiceInterface) *WebhookHandler {
	return &WebhookHandler{
		service: service,
	}
}

// HandleWebhook handles POST /webhook
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	// The body is read raw first so the audit log keeps the delivery
	// verbatim, fields outside the typed schema included
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid webhook payload",
			Message: err.Error(),
		})
		return
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid webhook payload",
			Message: err.Error(),
		})
		return
	}
	if err := binding.Validator.ValidateStruct(&payload); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid webhook payload",
			Message: err.Error(),
		})
		return
	}

	var rawPayload models.JSONB
	if err := json.Unmarshal(raw, &rawPayload); err != nil {
		rawPayload = models.JSONB{}
	}

	meta := services.WebhookMeta{
		SourceIP:   c.ClientIP(),
		Headers:    headerMap(c),
		RawPayload: rawPayload,
	}

	result, err := h.service.ProcessWebhook(c.Request.Context(), &payload, meta)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Order not found",
				Message: err.Error(),
			})
			return
		}
		if errors.Is(err, services.ErrDuplicateBankReference) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "Duplicate bank reference",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Failed to process webhook",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Webhook processed successfully",
		"order_id": result.OrderID,
		"status":   string(payload.OrderInfo.NormalizedStatus()),
	})
}

// headerMap flattens request headers for the audit trail
func headerMap(c *gin.Context) map[string]interface{} {
	headers := make(map[string]interface{}, len(c.Request.Header))
	for k, v := range c.Request.Header {
		if len(v) == 1 {
			headers[k] = v[0]
		} else {
			headers[k] = v
		}
	}
	return headers
}
