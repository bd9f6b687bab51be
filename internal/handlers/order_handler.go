package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-payments-service/internal/models"
	"school-payments-service/internal/services"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	service services.OrderServiceInterface
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service services.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrInvalidGateway):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid order",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrDuplicateOrder):
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "Duplicate order",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to create order",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetOrderStatus handles GET /api/v1/orders/:customOrderId/status
func (h *OrderHandler) GetOrderStatus(c *gin.Context) {
	customOrderID := c.Param("customOrderId")

	resp, err := h.service.GetTransactionStatus(c.Request.Context(), customOrderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Order not found",
				Message: customOrderID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to fetch order status",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
