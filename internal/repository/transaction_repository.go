package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"school-payments-service/internal/models"
)

// TransactionRepositoryInterface defines the joined transactions listing
type TransactionRepositoryInterface interface {
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionView, int64, error)
}

// TransactionRepository serves the read-side transactions view, joining
// orders with their settlement records
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// transactionRow is the flat scan target for the joined query
type transactionRow struct {
	CollectID         string
	CustomOrderID     string
	SchoolID          string
	GatewayName       string
	OrderAmount       float64
	TransactionAmount float64
	ResolvedStatus    string
	PaymentMode       string
	BankReference     string
	PaymentTime       *time.Time
	StudentInfo       models.StudentInfo
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// sortColumns whitelists sortable fields. payment_time lives on the joined
// settlement side; everything else sorts on the orders side.
var sortColumns = map[string]string{
	"created_at":      "orders.created_at",
	"updated_at":      "orders.updated_at",
	"order_amount":    "orders.order_amount",
	"payment_time":    "order_statuses.payment_time",
	"status":          "orders.status",
	"school_id":       "orders.school_id",
	"gateway":         "orders.gateway_name",
	"custom_order_id": "orders.custom_order_id",
}

const transactionSelect = `orders.id AS collect_id,
orders.custom_order_id,
orders.school_id,
orders.gateway_name,
orders.order_amount,
COALESCE(order_statuses.transaction_amount, orders.order_amount) AS transaction_amount,
COALESCE(order_statuses.status, orders.status) AS resolved_status,
COALESCE(order_statuses.payment_mode, '') AS payment_mode,
COALESCE(order_statuses.bank_reference, '') AS bank_reference,
order_statuses.payment_time,
orders.student_info,
orders.created_at,
orders.updated_at`

// ListTransactions returns one page of the joined view plus the total count
// matching the same filters. Orders without a settlement record resolve to
// their own coarse status and fall back to the order amount.
func (r *TransactionRepository) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionView, int64, error) {
	base := r.db.WithContext(ctx).Table("orders").
		Joins("LEFT JOIN order_statuses ON order_statuses.collect_id = orders.id")

	if filter.SchoolID != "" {
		base = base.Where("orders.school_id = ?", filter.SchoolID)
	}
	if filter.Gateway != "" {
		base = base.Where("orders.gateway_name = ?", filter.Gateway)
	}
	if filter.Status != "" {
		base = base.Where("COALESCE(order_statuses.status, orders.status) = ?", filter.Status)
	}
	if filter.StartDate != nil {
		base = base.Where("orders.created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		base = base.Where("orders.created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[filter.SortBy]
	if !ok {
		sortCol = sortColumns["created_at"]
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	offset := (filter.Page - 1) * filter.Limit

	var rows []transactionRow
	err := base.Select(transactionSelect).
		Order(sortCol + " " + direction).
		Limit(filter.Limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]models.TransactionView, 0, len(rows))
	for _, row := range rows {
		views = append(views, models.TransactionView{
			CollectID:         row.CollectID,
			CustomOrderID:     row.CustomOrderID,
			SchoolID:          row.SchoolID,
			GatewayName:       models.GatewayName(row.GatewayName),
			OrderAmount:       row.OrderAmount,
			TransactionAmount: row.TransactionAmount,
			Status:            row.ResolvedStatus,
			PaymentMode:       row.PaymentMode,
			BankReference:     row.BankReference,
			PaymentTime:       row.PaymentTime,
			StudentInfo:       row.StudentInfo,
			CreatedAt:         row.CreatedAt,
			UpdatedAt:         row.UpdatedAt,
		})
	}
	return views, total, nil
}
