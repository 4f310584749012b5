package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/pkg/apperror"
	"github.com/jexpert/profile-enrichment/internal/delivery/http/response"
)

// APIKeyMiddleware checks the X-Api-Key header against the configured
// pre-shared keys (§6), replacing the teacher's Supabase-JWT AuthMiddleware
// with a constant-time comparison against a static key set.
func APIKeyMiddleware(apiKeys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		candidate := c.GetHeader("X-Api-Key")
		if candidate == "" {
			response.Error(c, apperror.Unauthorized("X-Api-Key header is required"))
			c.Abort()
			return
		}

		for _, key := range apiKeys {
			if subtle.ConstantTimeCompare([]byte(candidate), []byte(key)) == 1 {
				c.Set(string(domain.KeyAPIKey), candidate)
				c.Next()
				return
			}
		}

		response.Error(c, apperror.Unauthorized("invalid API key"))
		c.Abort()
	}
}
