package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"school-payments-service/internal/models"
)

// EdvironClient raises collect requests against the Edviron payments API
type EdvironClient struct {
	name       models.GatewayName
	baseURL    string
	apiKey     string
	pgKey      string
	httpClient *http.Client
}

// NewEdvironClient creates a new Edviron gateway client. The same adapter
// serves any gateway reachable through the Edviron aggregation API.
func NewEdvironClient(name models.GatewayName, baseURL, apiKey, pgKey string) (*EdvironClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("gateway base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gateway API key is required")
	}
	return &EdvironClient{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		pgKey:   pgKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetName returns the gateway name
func (c *EdvironClient) GetName() models.GatewayName {
	return c.name
}

type collectRequestBody struct {
	SchoolID      string `json:"school_id"`
	TrusteeID     string `json:"trustee_id"`
	CustomOrderID string `json:"custom_order_id"`
	Amount        string `json:"amount"`
	CallbackURL   string `json:"callback_url,omitempty"`
	StudentName   string `json:"student_name,omitempty"`
	StudentEmail  string `json:"student_email,omitempty"`
	Gateway       string `json:"gateway"`
	PGKey         string `json:"pg_key,omitempty"`
}

type collectResponseBody struct {
	CollectRequestID  string `json:"collect_request_id"`
	CollectRequestURL string `json:"collect_request_url"`
	Status            string `json:"status"`
	Message           string `json:"message"`
}

// CreateCollectRequest raises a collect request and returns the hosted
// payment URL
func (c *EdvironClient) CreateCollectRequest(ctx context.Context, req *CollectRequest) (*CollectResponse, error) {
	body := collectRequestBody{
		SchoolID:      req.SchoolID,
		TrusteeID:     req.TrusteeID,
		CustomOrderID: req.CustomOrderID,
		Amount:        fmt.Sprintf("%.2f", req.Amount),
		CallbackURL:   req.CallbackURL,
		StudentName:   req.StudentName,
		StudentEmail:  req.StudentEmail,
		Gateway:       string(c.name),
		PGKey:         c.pgKey,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/create-collect-request", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewGatewayError("gateway_unreachable", fmt.Sprintf("collect request failed: %v", err), true)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 500 {
		return nil, NewGatewayError("gateway_error",
			fmt.Sprintf("gateway returned %d", resp.StatusCode), true)
	}
	if resp.StatusCode >= 400 {
		return nil, NewGatewayError("collect_rejected",
			fmt.Sprintf("gateway rejected collect request: %s", string(raw)), false)
	}

	var parsed collectResponseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, NewGatewayError("invalid_response", "gateway response was not valid JSON", false)
	}

	var rawMap map[string]interface{}
	_ = json.Unmarshal(raw, &rawMap)

	return &CollectResponse{
		CollectRequestID: parsed.CollectRequestID,
		PaymentURL:       parsed.CollectRequestURL,
		Status:           parsed.Status,
		RawResponse:      rawMap,
	}, nil
}
