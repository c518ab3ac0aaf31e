package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborview-hospitality/service-reservation/internal/application"
	"github.com/harborview-hospitality/service-reservation/internal/platform/auth"
	"github.com/harborview-hospitality/service-reservation/internal/platform/middleware"
	"github.com/harborview-hospitality/service-reservation/internal/platform/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
// Creating a booking and looking one up by number are public; everything else
// is staff-facing and sits behind authentication.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/number/:number", h.GetBookingByNumber)
	}

	admin := r.Group("/api/v1/bookings")
	admin.Use(middleware.Auth(jwtManager))
	{
		admin.GET("", h.ListBookings)
		admin.GET("/stats", h.GetBookingStats)
		admin.GET("/:id", h.GetBooking)
		admin.PUT("/:id", h.UpdateBooking)
		admin.DELETE("/:id", middleware.RequireRole(auth.RoleAdmin), h.DeleteBooking)
		admin.POST("/:id/confirm", h.ConfirmBooking)
		admin.POST("/:id/cancel", h.CancelBooking)
		admin.PATCH("/:id/payment-status", h.SetPaymentStatus)
		admin.POST("/:id/check-in", h.CheckInBooking)
		admin.POST("/:id/check-out", h.CheckOutBooking)
		admin.POST("/:id/complete", h.CompleteBooking)
		admin.POST("/:id/no-show", h.MarkNoShow)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetBookingByNumber handles GET /api/v1/bookings/number/:number.
func (h *BookingHandler) GetBookingByNumber(c *gin.Context) {
	result, err := h.service.GetBookingByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookings handles GET /api/v1/bookings. An email query filters bookings
// by the guest contact email.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		result, err := h.service.GetBookingsByGuestEmail(c.Request.Context(), email)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBooking handles PUT /api/v1/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req application.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.ConfirmBooking(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, err.Error())
		return
	}

	cancelledBy, _ := middleware.GetUsername(c)
	result, err := h.service.CancelBooking(c.Request.Context(), id, req.Reason, cancelledBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

type setPaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// SetPaymentStatus handles PATCH /api/v1/bookings/:id/payment-status.
func (h *BookingHandler) SetPaymentStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req setPaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetBookingPaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CheckInBooking handles POST /api/v1/bookings/:id/check-in.
func (h *BookingHandler) CheckInBooking(c *gin.Context) {
	h.applyTransition(c, h.service.CheckInBooking)
}

// CheckOutBooking handles POST /api/v1/bookings/:id/check-out.
func (h *BookingHandler) CheckOutBooking(c *gin.Context) {
	h.applyTransition(c, h.service.CheckOutBooking)
}

// CompleteBooking handles POST /api/v1/bookings/:id/complete.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.applyTransition(c, h.service.CompleteBooking)
}

// MarkNoShow handles POST /api/v1/bookings/:id/no-show.
func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	h.applyTransition(c, h.service.MarkNoShow)
}

// GetBookingStats handles GET /api/v1/bookings/stats.
func (h *BookingHandler) GetBookingStats(c *gin.Context) {
	result, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func (h *BookingHandler) applyTransition(c *gin.Context, op func(context.Context, uuid.UUID) (*application.BookingDTO, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := op(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
