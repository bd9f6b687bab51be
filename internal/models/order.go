package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// GatewayName represents the payment gateway provider handling a collect request
type GatewayName string

const (
	GatewayEdviron  GatewayName = "edviron"
	GatewayCashfree GatewayName = "cashfree"
	GatewayRazorpay GatewayName = "razorpay"
	GatewayPayU     GatewayName = "payu"
	GatewayPhonePe  GatewayName = "phonepe"
)

// SupportedGateways lists the gateways orders can be created against
var SupportedGateways = []GatewayName{
	GatewayEdviron,
	GatewayCashfree,
	GatewayRazorpay,
	GatewayPayU,
	GatewayPhonePe,
}

// IsValidGateway reports whether name is a supported gateway
func IsValidGateway(name GatewayName) bool {
	for _, g := range SupportedGateways {
		if g == name {
			return true
		}
	}
	return false
}

// OrderState represents the coarse lifecycle status of an Order
type OrderState string

const (
	OrderPending    OrderState = "pending"
	OrderProcessing OrderState = "processing"
	OrderCompleted  OrderState = "completed"
	OrderFailed     OrderState = "failed"
	OrderCancelled  OrderState = "cancelled"
)

// SettlementStatus represents the gateway-reported settlement status
type SettlementStatus string

const (
	SettlementPending    SettlementStatus = "pending"
	SettlementSuccess    SettlementStatus = "success"
	SettlementFailed     SettlementStatus = "failed"
	SettlementProcessing SettlementStatus = "processing"
	SettlementCancelled  SettlementStatus = "cancelled"
)

// OrderStateFromSettlement maps a settlement status onto the coarse order status
func OrderStateFromSettlement(status SettlementStatus) OrderState {
	switch status {
	case SettlementSuccess:
		return OrderCompleted
	case SettlementFailed:
		return OrderFailed
	case SettlementProcessing:
		return OrderProcessing
	case SettlementCancelled:
		return OrderCancelled
	default:
		return OrderPending
	}
}

// PaymentMode represents the instrument used to pay
type PaymentMode string

const (
	ModeUPI        PaymentMode = "upi"
	ModeCard       PaymentMode = "card"
	ModeNetBanking PaymentMode = "netbanking"
	ModeWallet     PaymentMode = "wallet"
	ModeCash       PaymentMode = "cash"
)

// ErrorMessageNone is the sentinel stored when the gateway reported no error
const ErrorMessageNone = "NA"

// JSONB custom type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(j))
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*j = JSONB(m)
	return nil
}

// StudentInfo identifies the student an order collects fees for.
// Stored as a jsonb column on orders.
type StudentInfo struct {
	Name  string `json:"name" binding:"required"`
	ID    string `json:"id" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func (s StudentInfo) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StudentInfo) Scan(value interface{}) error {
	if value == nil {
		*s = StudentInfo{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("unsupported student_info column type")
	}
	return json.Unmarshal(bytes, s)
}

// Order represents a single fee-payment intent raised by a school.
// The row ID doubles as the collect id joining Order and OrderStatus.
type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CustomOrderID string      `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_custom_order_id" json:"customOrderId"`
	SchoolID      string      `gorm:"type:varchar(255);not null;index:idx_orders_school" json:"schoolId"`
	TrusteeID     string      `gorm:"type:varchar(255);not null" json:"trusteeId"`
	StudentInfo   StudentInfo `gorm:"type:jsonb" json:"studentInfo"`
	GatewayName   GatewayName `gorm:"type:varchar(50);not null;index:idx_orders_gateway" json:"gatewayName"`
	OrderAmount   float64     `gorm:"type:decimal(12,2);not null" json:"orderAmount"`
	Status        OrderState  `gorm:"type:varchar(20);not null;default:'pending';index:idx_orders_status" json:"status"`

	// Gateway correlation
	CollectRequestID string `gorm:"type:varchar(255)" json:"collectRequestId,omitempty"`
	PaymentURL       string `gorm:"type:text" json:"paymentUrl,omitempty"`
	APIResponse      JSONB  `gorm:"type:jsonb" json:"apiResponse,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_orders_created" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	// Relationships
	OrderStatus *OrderStatus `gorm:"foreignKey:CollectID" json:"orderStatus,omitempty"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// OrderStatus represents the gateway-confirmed settlement detail for an Order.
// At most one row exists per order; webhooks upsert it in place.
type OrderStatus struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CollectID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_order_statuses_collect" json:"collectId"`
	OrderAmount       float64          `gorm:"type:decimal(12,2);not null" json:"orderAmount"`
	TransactionAmount float64          `gorm:"type:decimal(12,2)" json:"transactionAmount"`
	PaymentMode       PaymentMode      `gorm:"type:varchar(20)" json:"paymentMode,omitempty"`
	PaymentDetails    string           `gorm:"type:text" json:"paymentDetails,omitempty"`
	BankReference     *string          `gorm:"type:varchar(255);uniqueIndex:idx_order_statuses_bank_ref" json:"bankReference,omitempty"`
	PaymentMessage    string           `gorm:"type:text" json:"paymentMessage,omitempty"`
	Status            SettlementStatus `gorm:"type:varchar(20);not null;index:idx_order_statuses_status" json:"status"`
	ErrorMessage      string           `gorm:"type:text;default:'NA'" json:"errorMessage"`
	PaymentTime       *time.Time       `json:"paymentTime,omitempty"`
	Gateway           GatewayName      `gorm:"type:varchar(50)" json:"gateway,omitempty"`
	CustomOrderID     string           `gorm:"type:varchar(64);index:idx_order_statuses_custom_order_id" json:"customOrderId"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for OrderStatus
func (OrderStatus) TableName() string {
	return "order_statuses"
}
