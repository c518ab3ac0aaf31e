// Package response provides the HTTP response envelope and the mapping from
// domain errors to HTTP status codes.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
)

// Envelope is the standard response body for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries pagination metadata for list responses.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: msg})
}

// Error maps a domain error to its HTTP status and writes the response.
// NotFound → 404, validation and illegal transitions → 400, conflicts → 409,
// missing credentials → 401, everything else → 500.
func Error(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, Envelope{Success: false, Error: err.Error()})
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: err.Error()})
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, Envelope{Success: false, Error: err.Error()})
	case domain.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, Envelope{Success: false, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: "internal server error"})
	}
}
