package v1_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	v1 "github.com/jexpert/profile-enrichment/internal/delivery/http/v1"
	"github.com/jexpert/profile-enrichment/internal/health"
	"github.com/jexpert/profile-enrichment/internal/workflow"
)

func TestHealthLiveness_AlwaysReturns200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	wf := workflow.New(workflow.Config{ProfileURL: "http://127.0.0.1:0", OrganizationURL: "http://127.0.0.1:0", RequestTimeout: time.Second})
	v1.NewHealthHandler(r, health.New(wf, "https://linkedin.com/in/x", "https://linkedin.com/company/x"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthUpstream_Returns503WhenWorkflowUnreachable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := gin.New()
	wf := workflow.New(workflow.Config{ProfileURL: server.URL, OrganizationURL: server.URL, RequestTimeout: time.Second, MaxRetries: 1})
	v1.NewHealthHandler(r, health.New(wf, "https://linkedin.com/in/x", "https://linkedin.com/company/x"))

	req := httptest.NewRequest(http.MethodGet, "/health/linkedin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthDetailed_ReturnsReportBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "1", "url": "https://linkedin.com/in/x", "full_name": "X"})
	}))
	defer server.Close()

	r := gin.New()
	wf := workflow.New(workflow.Config{ProfileURL: server.URL, OrganizationURL: server.URL, RequestTimeout: time.Second})
	v1.NewHealthHandler(r, health.New(wf, "https://linkedin.com/in/x", "https://linkedin.com/company/x"))

	req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "status")
}
