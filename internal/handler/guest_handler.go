package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/harborview-hospitality/service-reservation/internal/application"
	"github.com/harborview-hospitality/service-reservation/internal/platform/auth"
	"github.com/harborview-hospitality/service-reservation/internal/platform/middleware"
	"github.com/harborview-hospitality/service-reservation/internal/platform/response"
)

// GuestHandler handles HTTP requests for the guest directory. The whole
// surface is staff-facing.
type GuestHandler struct {
	service *application.GuestService
}

// NewGuestHandler creates a new GuestHandler.
func NewGuestHandler(service *application.GuestService) *GuestHandler {
	return &GuestHandler{service: service}
}

// RegisterRoutes registers all guest routes on the given router group.
func (h *GuestHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	guests := r.Group("/api/v1/guests")
	guests.Use(middleware.Auth(jwtManager))
	{
		guests.GET("", h.ListGuests)
		guests.POST("", h.CreateGuest)
		guests.GET("/:id", h.GetGuest)
		guests.PUT("/:id", h.UpdateGuestProfile)
	}
}

// ListGuests handles GET /api/v1/guests. An email query looks up a single
// guest.
func (h *GuestHandler) ListGuests(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		result, err := h.service.GetGuestByEmail(c.Request.Context(), email)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListGuests(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// CreateGuest handles POST /api/v1/guests.
func (h *GuestHandler) CreateGuest(c *gin.Context) {
	var req application.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateGuest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetGuest handles GET /api/v1/guests/:id.
func (h *GuestHandler) GetGuest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.GetGuest(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateGuestProfile handles PUT /api/v1/guests/:id.
func (h *GuestHandler) UpdateGuestProfile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req application.UpdateGuestProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateGuestProfile(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
