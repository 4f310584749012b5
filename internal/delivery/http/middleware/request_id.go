package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jexpert/profile-enrichment/internal/domain"
)

// RequestID assigns a correlation id to every request, honoring an
// inbound X-Request-Id header when the caller already has one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(string(domain.KeyRequestID), id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
