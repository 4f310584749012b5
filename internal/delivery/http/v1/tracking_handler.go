package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/internal/tracker"
	"github.com/jexpert/profile-enrichment/pkg/apperror"
)

// TrackingHandler exposes the in-process ingestion tracker (C10) as a
// read-only accessor, letting a caller look up the stage, counters and
// outcome of an ingestion run by its request id.
type TrackingHandler struct {
	tracker *tracker.Tracker
}

func NewTrackingHandler(rg *gin.RouterGroup, t *tracker.Tracker) {
	h := &TrackingHandler{tracker: t}
	rg.GET("/requests/:id", h.Get)
}

func (h *TrackingHandler) Get(c *gin.Context) {
	record, ok := h.tracker.Get(c.Param("id"))
	if !ok {
		c.Error(apperror.NotFound("tracking record not found or expired"))
		return
	}
	c.JSON(http.StatusOK, record)
}
