package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// AuditLog represents an audit log entry
type AuditLog struct {
	Timestamp  time.Time         `json:"timestamp"`
	RequestID  string            `json:"requestId"`
	Method     string            `json:"method"`
	Path       string            `json:"path"`
	StatusCode int               `json:"statusCode"`
	Duration   time.Duration     `json:"duration"`
	ClientIP   string            `json:"clientIp"`
	UserAgent  string            `json:"userAgent"`
	Action     string            `json:"action,omitempty"`
	Resource   string            `json:"resource,omitempty"`
	ResourceID string            `json:"resourceId,omitempty"`
	Success    bool              `json:"success"`
	ErrorMsg   string            `json:"error,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// AuditLogger defines the interface for audit logging
type AuditLogger interface {
	Log(entry *AuditLog)
}

// DefaultAuditLogger logs to stdout in JSON format
type DefaultAuditLogger struct{}

func (l *DefaultAuditLogger) Log(entry *AuditLog) {
	data, _ := json.Marshal(entry)
	log.Printf("[AUDIT] %s", string(data))
}

// AuditMiddleware logs all payment-related requests
func AuditMiddleware(logger AuditLogger) gin.HandlerFunc {
	if logger == nil {
		logger = &DefaultAuditLogger{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		// Read request body for audit (only for POST/PUT)
		var requestBody []byte
		if c.Request.Method == "POST" || c.Request.Method == "PUT" {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// Process request
		c.Next()

		// Build audit entry
		entry := &AuditLog{
			Timestamp:  start,
			RequestID:  c.GetString("requestID"),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			Duration:   time.Since(start),
			ClientIP:   c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Success:    c.Writer.Status() < 400,
		}

		// Extract action and resource from path
		entry.Action, entry.Resource, entry.ResourceID = parsePaymentAction(c)

		// Add any error message
		if entry.StatusCode >= 400 {
			if errors, exists := c.Get("errors"); exists {
				entry.ErrorMsg = errors.(string)
			}
		}

		// Add payment-specific metadata
		entry.Metadata = extractPaymentMetadata(c, requestBody)

		// Log the entry
		logger.Log(entry)
	}
}

// parsePaymentAction extracts action and resource from the request
func parsePaymentAction(c *gin.Context) (action, resource, resourceID string) {
	path := c.Request.URL.Path
	method := c.Request.Method

	switch {
	case path == "/api/v1/orders" && method == "POST":
		return "create_order", "order", ""
	case matchPath(path, "/api/v1/orders/*/status"):
		return "get_order_status", "order", c.Param("customOrderId")
	case path == "/api/v1/transactions":
		return "list_transactions", "transaction", ""
	case matchPath(path, "/api/v1/transactions/school/*"):
		return "list_school_transactions", "transaction", c.Param("schoolId")
	case path == "/webhook":
		return "webhook_received", "webhook", ""
	default:
		return method, path, ""
	}
}

// matchPath checks if path matches a pattern with * wildcards
func matchPath(path, pattern string) bool {
	patternParts := splitPath(pattern)
	pathParts := splitPath(path)

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, part := range patternParts {
		if part != "*" && part != pathParts[i] {
			return false
		}
	}

	return true
}

func splitPath(path string) []string {
	parts := []string{}
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// extractPaymentMetadata extracts relevant metadata from request
func extractPaymentMetadata(c *gin.Context, body []byte) map[string]string {
	metadata := make(map[string]string)

	if c.Request.URL.Path == "/api/v1/orders" && len(body) > 0 {
		var req struct {
			Amount      float64 `json:"order_amount"`
			GatewayName string  `json:"gateway_name"`
			SchoolID    string  `json:"school_id"`
		}
		if json.Unmarshal(body, &req) == nil {
			metadata["amount"] = fmt.Sprintf("%.2f", req.Amount)
			metadata["gateway"] = req.GatewayName
			metadata["school_id"] = req.SchoolID
		}
	}

	if c.Request.URL.Path == "/webhook" && len(body) > 0 {
		var req struct {
			OrderInfo struct {
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"order_info"`
		}
		if json.Unmarshal(body, &req) == nil {
			metadata["order_id"] = req.OrderInfo.OrderID
			metadata["status"] = req.OrderInfo.Status
		}
	}

	return metadata
}
