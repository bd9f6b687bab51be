package gateway

import (
	"context"

	"school-payments-service/internal/models"
)

// Client defines the interface all payment gateway adapters must implement
type Client interface {
	// GetName returns the gateway name
	GetName() models.GatewayName

	// CreateCollectRequest raises a collect request with the gateway and
	// returns the hosted payment URL for the payer
	CreateCollectRequest(ctx context.Context, req *CollectRequest) (*CollectResponse, error)
}

// CollectRequest represents a request to raise a collect with a gateway
type CollectRequest struct {
	SchoolID      string
	TrusteeID     string
	CustomOrderID string
	Amount        float64
	StudentName   string
	StudentEmail  string
	CallbackURL   string
}

// CollectResponse represents the gateway's answer to a collect request
type CollectResponse struct {
	CollectRequestID string                 `json:"collectRequestId"`
	PaymentURL       string                 `json:"paymentUrl"`
	Status           string                 `json:"status"`
	RawResponse      map[string]interface{} `json:"rawResponse,omitempty"`
}

// GatewayError represents an error from a payment gateway
type GatewayError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func (e *GatewayError) Error() string {
	return e.Message
}

// NewGatewayError creates a new gateway error
func NewGatewayError(code, message string, retryable bool) *GatewayError {
	return &GatewayError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
	}
}
