package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/harborview-hospitality/service-reservation/internal/application"
	"github.com/harborview-hospitality/service-reservation/internal/platform/auth"
	"github.com/harborview-hospitality/service-reservation/internal/platform/middleware"
	"github.com/harborview-hospitality/service-reservation/internal/platform/response"
)

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	service *application.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers all payment routes on the given router group.
// Taking a payment is public (guests pay their own bookings); querying and
// refunding are staff-facing.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	payments := r.Group("/api/v1/payments")
	{
		payments.POST("", h.CreatePayment)
	}

	admin := r.Group("/api/v1/payments")
	admin.Use(middleware.Auth(jwtManager))
	{
		admin.GET("", h.ListPayments)
		admin.GET("/:id", h.GetPayment)
		admin.GET("/booking/:id", h.GetPaymentsByBooking)
		admin.POST("/:id/refund", middleware.RequireRole(auth.RoleAdmin), h.RefundPayment)
	}
}

// CreatePayment handles POST /api/v1/payments.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req application.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListPayments handles GET /api/v1/payments. A status query filters by
// settlement status.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		result, err := h.service.ListPaymentsByStatus(c.Request.Context(), status)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListPayments(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetPayment handles GET /api/v1/payments/:id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetPaymentsByBooking handles GET /api/v1/payments/booking/:id.
func (h *PaymentHandler) GetPaymentsByBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.GetPaymentsByBooking(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RefundPayment handles POST /api/v1/payments/:id/refund.
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req application.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RefundPayment(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
