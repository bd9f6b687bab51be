package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"school-payments-service/internal/models"
)

func TestListTransactions_PaginationEnvelope(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockTransactionRepository)
	service := NewTransactionService(mockRepo, nil)

	views := make([]models.TransactionView, 10)
	mockRepo.On("ListTransactions", ctx, mock.AnythingOfType("models.TransactionFilter")).
		Return(views, int64(25), nil)

	resp, err := service.ListTransactions(ctx, models.TransactionFilter{Page: 2, Limit: 10})

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 10)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, int64(25), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
	mockRepo.AssertExpectations(t)
}

func TestListTransactions_LastPageEnvelope(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockTransactionRepository)
	service := NewTransactionService(mockRepo, nil)

	mockRepo.On("ListTransactions", ctx, mock.AnythingOfType("models.TransactionFilter")).
		Return(make([]models.TransactionView, 5), int64(25), nil)

	resp, err := service.ListTransactions(ctx, models.TransactionFilter{Page: 3, Limit: 10})

	assert.NoError(t, err)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
}

func TestListTransactions_NormalizesPagination(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockTransactionRepository)
	service := NewTransactionService(mockRepo, nil)

	mockRepo.On("ListTransactions", ctx, mock.AnythingOfType("models.TransactionFilter")).
		Return([]models.TransactionView{}, int64(0), nil)

	_, err := service.ListTransactions(ctx, models.TransactionFilter{Page: 0, Limit: 500})
	assert.NoError(t, err)

	applied := mockRepo.Calls[0].Arguments.Get(1).(models.TransactionFilter)
	assert.Equal(t, 1, applied.Page)
	assert.Equal(t, maxPageLimit, applied.Limit)
}

func TestListTransactionsForSchool_ForcesSchoolFilter(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockTransactionRepository)
	service := NewTransactionService(mockRepo, nil)

	mockRepo.On("ListTransactions", ctx, mock.AnythingOfType("models.TransactionFilter")).
		Return([]models.TransactionView{}, int64(0), nil)

	// The school argument must win even when the filter names another school
	_, err := service.ListTransactionsForSchool(ctx, "school-9", models.TransactionFilter{
		SchoolID: "school-1",
		Status:   "success",
		Page:     1,
		Limit:    10,
	})
	assert.NoError(t, err)

	applied := mockRepo.Calls[0].Arguments.Get(1).(models.TransactionFilter)
	assert.Equal(t, "school-9", applied.SchoolID)
	assert.Equal(t, "success", applied.Status)
}
