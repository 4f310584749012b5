package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/pkg/apperror"
)

// ErrorEnvelope is the consistent error shape described in §7: a stable
// error_code, a human message, and optional details/suggestions.
type ErrorEnvelope struct {
	ErrorCode   string      `json:"error_code"`
	Message     string      `json:"message"`
	Details     interface{} `json:"details,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
}

// JSON sends data as-is with the given status code.
func JSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Created sends a 201 with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends the standard error envelope for an *apperror.AppError.
func Error(c *gin.Context, appErr *apperror.AppError) {
	c.JSON(appErr.Code, ErrorEnvelope{
		ErrorCode:   appErr.ErrorCode,
		Message:     appErr.Message,
		Details:     appErr.Details,
		Suggestions: appErr.Suggestions,
	})
}
