package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"school-payments-service/internal/models"
	"school-payments-service/internal/services"
)

// MockTransactionService is a mock implementation of TransactionServiceInterface
type MockTransactionService struct {
	mock.Mock
}

var _ services.TransactionServiceInterface = (*MockTransactionService)(nil)

func (m *MockTransactionService) ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionListResponse), args.Error(1)
}

func (m *MockTransactionService) ListTransactionsForSchool(ctx context.Context, schoolID string, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	args := m.Called(ctx, schoolID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionListResponse), args.Error(1)
}

func TestListTransactions_Handler_ParsesQuery(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	router.GET("/api/v1/transactions", handler.ListTransactions)

	mockService.On("ListTransactions", mock.Anything, mock.AnythingOfType("models.TransactionFilter")).
		Return(&models.TransactionListResponse{
			Data:       []models.TransactionView{},
			Pagination: models.NewPagination(2, 20, 0),
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/transactions?page=2&limit=20&status=success&gateway=edviron&sort=payment_time&order=asc&start_date=2026-08-01&end_date=2026-08-29", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	filter := mockService.Calls[0].Arguments.Get(1).(models.TransactionFilter)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, "success", filter.Status)
	assert.Equal(t, "edviron", filter.Gateway)
	assert.Equal(t, "payment_time", filter.SortBy)
	assert.False(t, filter.SortDesc)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
	// Bare end dates cover their whole day
	assert.True(t, filter.EndDate.After(time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC)))
	mockService.AssertExpectations(t)
}

func TestListTransactions_Handler_InvalidPage(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	router.GET("/api/v1/transactions", handler.ListTransactions)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/transactions?page=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
}

func TestListTransactionsForSchool_Handler_PassesSchoolID(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService)
	router.GET("/api/v1/transactions/school/:schoolId", handler.ListTransactionsForSchool)

	updated := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	mockService.On("ListTransactionsForSchool", mock.Anything, "school-7", mock.AnythingOfType("models.TransactionFilter")).
		Return(&models.TransactionListResponse{
			Data: []models.TransactionView{
				{
					CustomOrderID: "ORD_1_001",
					SchoolID:      "school-7",
					Status:        "success",
					StudentInfo:   models.StudentInfo{Name: "Asha Rao", ID: "stu-1", Email: "asha@example.com"},
					UpdatedAt:     updated,
				},
			},
			Pagination: models.NewPagination(1, 10, 1),
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/transactions/school/school-7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.TransactionListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "school-7", resp.Data[0].SchoolID)
	assert.Equal(t, "Asha Rao", resp.Data[0].StudentInfo.Name)
	assert.Equal(t, updated, resp.Data[0].UpdatedAt)
	mockService.AssertExpectations(t)
}
