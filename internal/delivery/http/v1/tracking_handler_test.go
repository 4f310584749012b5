package v1_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	v1 "github.com/jexpert/profile-enrichment/internal/delivery/http/v1"
	"github.com/jexpert/profile-enrichment/internal/delivery/http/middleware"
	"github.com/jexpert/profile-enrichment/internal/tracker"
)

func newTestTrackingRouter(trk *tracker.Tracker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	api := r.Group("/api/v1")
	v1.NewTrackingHandler(api, trk)
	return r
}

func TestTrackingGet_Returns404ForUnknownRequestID(t *testing.T) {
	trk := tracker.New(time.Minute)
	r := newTestTrackingRouter(trk)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/does-not-exist", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackingGet_Returns200ForKnownRequestID(t *testing.T) {
	trk := tracker.New(time.Minute)
	trk.Start("req-1", 3)

	r := newTestTrackingRouter(trk)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/req-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
