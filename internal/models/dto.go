package models

import "time"

// CreateOrderRequest is the request body for creating a payment order
type CreateOrderRequest struct {
	SchoolID    string      `json:"school_id" binding:"required"`
	TrusteeID   string      `json:"trustee_id" binding:"required"`
	StudentInfo StudentInfo `json:"student_info" binding:"required"`
	GatewayName GatewayName `json:"gateway_name" binding:"required"`
	Amount      float64     `json:"order_amount" binding:"required,gt=0"`
	CallbackURL string      `json:"callback_url"`
}

// CreateOrderResponse is returned once an order has been created and a
// collect request raised with the gateway
type CreateOrderResponse struct {
	OrderID          string `json:"orderId"`
	CustomOrderID    string `json:"customOrderId"`
	CollectRequestID string `json:"collectRequestId,omitempty"`
	PaymentURL       string `json:"paymentUrl,omitempty"`
	Status           string `json:"status"`
}

// OrderStatusResponse is the composed view for status lookup by custom order id
type OrderStatusResponse struct {
	CustomOrderID     string      `json:"customOrderId"`
	OrderID           string      `json:"orderId"`
	SchoolID          string      `json:"schoolId"`
	StudentInfo       StudentInfo `json:"studentInfo"`
	GatewayName       GatewayName `json:"gatewayName"`
	OrderAmount       float64     `json:"orderAmount"`
	TransactionAmount float64     `json:"transactionAmount,omitempty"`
	Status            string      `json:"status"`
	PaymentMode       string      `json:"paymentMode,omitempty"`
	BankReference     string      `json:"bankReference,omitempty"`
	PaymentMessage    string      `json:"paymentMessage,omitempty"`
	PaymentTime       *time.Time  `json:"paymentTime,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// TransactionView is one row of the joined transactions listing
type TransactionView struct {
	CollectID         string      `json:"collect_id"`
	CustomOrderID     string      `json:"custom_order_id"`
	SchoolID          string      `json:"school_id"`
	GatewayName       GatewayName `json:"gateway"`
	OrderAmount       float64     `json:"order_amount"`
	TransactionAmount float64     `json:"transaction_amount"`
	Status            string      `json:"status"`
	PaymentMode       string      `json:"payment_mode,omitempty"`
	BankReference     string      `json:"bank_reference,omitempty"`
	PaymentTime       *time.Time  `json:"payment_time,omitempty"`
	StudentInfo       StudentInfo `json:"student_info"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// TransactionFilter carries the query parameters of a transactions listing
type TransactionFilter struct {
	Status    string
	SchoolID  string
	Gateway   string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
	SortBy    string
	SortDesc  bool
}

// Pagination is the envelope metadata attached to list responses
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination computes envelope metadata from a total row count
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// TransactionListResponse wraps a page of transactions
type TransactionListResponse struct {
	Data       []TransactionView `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// WebhookResult summarizes the outcome of reconciling one webhook delivery
type WebhookResult struct {
	WebhookLogID     string           `json:"webhookLogId"`
	OrderID          string           `json:"orderId"`
	ProcessingStatus ProcessingStatus `json:"processingStatus"`
	OrderUpdated     bool             `json:"orderUpdated"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
