package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/health"
)

// HealthHandler serves the three liveness/readiness/deep-probe endpoints
// (§4.9, §6). It never touches persistence, mirroring the Validator it
// wraps.
type HealthHandler struct {
	validator *health.Validator
}

func NewHealthHandler(r *gin.Engine, validator *health.Validator) {
	h := &HealthHandler{validator: validator}
	r.GET("/health", h.Liveness)
	r.GET("/health/detailed", h.Detailed)
	r.GET("/health/linkedin", h.Upstream)
}

// Liveness reports the process is up, without calling out to anything.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Detailed runs the comprehensive probe and maps its classification to an
// HTTP status.
func (h *HealthHandler) Detailed(c *gin.Context) {
	report := h.validator.ComprehensiveCheck(c.Request.Context())
	status := http.StatusOK
	if report.Status == domain.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// Upstream runs the cheap quick_check against the external workflow
// endpoint only.
func (h *HealthHandler) Upstream(c *gin.Context) {
	if err := h.validator.QuickCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
