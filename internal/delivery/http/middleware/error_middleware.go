package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/internal/delivery/http/response"
	"github.com/jexpert/profile-enrichment/pkg/apperror"
	"github.com/jexpert/profile-enrichment/pkg/logger"
)

// ErrorHandler translates errors appended to the gin context into the
// stable error envelope from §7. Raw internal errors are logged but never
// sent to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			response.Error(c, appErr)
			return
		}

		logger.Log.Error("unhandled internal error", "error", err, "path", c.Request.URL.Path)
		response.Error(c, apperror.Internal(err))
	}
}
