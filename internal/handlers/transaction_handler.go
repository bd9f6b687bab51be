package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"school-payments-service/internal/models"
	"school-payments-service/internal/services"
)

// TransactionHandler handles transaction listing HTTP requests
type TransactionHandler struct {
	service services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		service: service,
	}
}

// ListTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.service.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list transactions",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListTransactionsForSchool handles GET /api/v1/transactions/school/:schoolId
func (h *TransactionHandler) ListTransactionsForSchool(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.service.ListTransactionsForSchool(c.Request.Context(), c.Param("schoolId"), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list transactions",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// parseTransactionFilter reads listing query parameters
func parseTransactionFilter(c *gin.Context) (models.TransactionFilter, error) {
	filter := models.TransactionFilter{
		Status:   c.Query("status"),
		SchoolID: c.Query("school_id"),
		Gateway:  c.Query("gateway"),
		SortBy:   c.DefaultQuery("sort", "created_at"),
		SortDesc: strings.EqualFold(c.DefaultQuery("order", "desc"), "desc"),
	}

	var err error
	if filter.Page, err = strconv.Atoi(c.DefaultQuery("page", "1")); err != nil {
		return filter, err
	}
	if filter.Limit, err = strconv.Atoi(c.DefaultQuery("limit", "10")); err != nil {
		return filter, err
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := parseDateParam(raw, false)
		if err != nil {
			return filter, err
		}
		filter.StartDate = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := parseDateParam(raw, true)
		if err != nil {
			return filter, err
		}
		filter.EndDate = t
	}
	return filter, nil
}

// parseDateParam accepts RFC3339 timestamps or bare dates. A bare end date is
// pushed to the end of its day so the range stays inclusive.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
