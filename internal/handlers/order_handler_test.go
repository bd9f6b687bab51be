package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"school-payments-service/internal/models"
	"school-payments-service/internal/services"
)

// MockOrderService is a mock implementation of OrderServiceInterface
type MockOrderService struct {
	mock.Mock
}

var _ services.OrderServiceInterface = (*MockOrderService)(nil)

func (m *MockOrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateOrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByCustomOrderID(ctx context.Context, customOrderID string) (*models.Order, error) {
	args := m.Called(ctx, customOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) GetTransactionStatus(ctx context.Context, customOrderID string) (*models.OrderStatusResponse, error) {
	args := m.Called(ctx, customOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderStatusResponse), args.Error(1)
}

// Helper to setup test router
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func createOrderBody() []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"school_id":  "school-1",
		"trustee_id": "trustee-1",
		"student_info": map[string]string{
			"name":  "Asha Rao",
			"id":    "stu-1",
			"email": "asha@example.com",
		},
		"gateway_name": "edviron",
		"order_amount": 1000,
	})
	return body
}

func TestCreateOrder_Handler_Created(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)
	router.POST("/api/v1/orders", handler.CreateOrder)

	mockService.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.CreateOrderRequest")).
		Return(&models.CreateOrderResponse{
			OrderID:       "7f9c3f2e-0000-0000-0000-000000000001",
			CustomOrderID: "ORD_1_001",
			Status:        "pending",
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/orders", bytes.NewBuffer(createOrderBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.CreateOrderResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ORD_1_001", resp.CustomOrderID)

	// The amount binds from the order_amount wire field
	parsed := mockService.Calls[0].Arguments.Get(1).(*models.CreateOrderRequest)
	assert.Equal(t, float64(1000), parsed.Amount)
	mockService.AssertExpectations(t)
}

func TestCreateOrder_Handler_InvalidBody(t *testing.T) {
	router := setupTestRouter()
	handler := NewOrderHandler(new(MockOrderService))
	router.POST("/api/v1/orders", handler.CreateOrder)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/orders", bytes.NewBufferString(`{"school_id":"s1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrder_Handler_DuplicateConflict(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)
	router.POST("/api/v1/orders", handler.CreateOrder)

	mockService.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.CreateOrderRequest")).
		Return(nil, services.ErrDuplicateOrder)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/orders", bytes.NewBuffer(createOrderBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetOrderStatus_Handler_Success(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)
	router.GET("/api/v1/orders/:customOrderId/status", handler.GetOrderStatus)

	mockService.On("GetTransactionStatus", mock.Anything, "ORD_1_001").
		Return(&models.OrderStatusResponse{
			CustomOrderID:     "ORD_1_001",
			Status:            "success",
			TransactionAmount: 1050,
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/orders/ORD_1_001/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.OrderStatusResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, float64(1050), resp.TransactionAmount)
}

func TestGetOrderStatus_Handler_NotFound(t *testing.T) {
	router := setupTestRouter()
	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)
	router.GET("/api/v1/orders/:customOrderId/status", handler.GetOrderStatus)

	mockService.On("GetTransactionStatus", mock.Anything, "ORD_MISSING").
		Return(nil, services.ErrOrderNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/orders/ORD_MISSING/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
