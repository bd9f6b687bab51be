package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"school-payments-service/internal/models"
	"school-payments-service/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// TransactionServiceInterface defines the transactions read side
type TransactionServiceInterface interface {
	ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error)
	ListTransactionsForSchool(ctx context.Context, schoolID string, filter models.TransactionFilter) (*models.TransactionListResponse, error)
}

// TransactionService serves the paginated, joined transactions view
type TransactionService struct {
	transactions repository.TransactionRepositoryInterface
	logger       *logrus.Entry
}

// NewTransactionService creates a new transaction service
func NewTransactionService(transactions repository.TransactionRepositoryInterface, logger *logrus.Entry) *TransactionService {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &TransactionService{
		transactions: transactions,
		logger:       logger,
	}
}

// normalizeFilter clamps pagination to sane bounds
func normalizeFilter(filter models.TransactionFilter) models.TransactionFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	return filter
}

// ListTransactions returns one page of the joined orders/settlements view
func (s *TransactionService) ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	filter = normalizeFilter(filter)

	views, total, err := s.transactions.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.TransactionListResponse{
		Data:       views,
		Pagination: models.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// ListTransactionsForSchool forces the school filter and delegates to
// ListTransactions, so both paths share one set of semantics
func (s *TransactionService) ListTransactionsForSchool(ctx context.Context, schoolID string, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	filter.SchoolID = schoolID
	return s.ListTransactions(ctx, filter)
}
