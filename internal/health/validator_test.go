package health_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/health"
	"github.com/jexpert/profile-enrichment/internal/workflow"
)

func richProfilePayload() map[string]interface{} {
	return map[string]interface{}{
		"id":        "ext-1",
		"url":       "https://www.linkedin.com/in/williamhgates/",
		"full_name": "Bill Gates",
		"headline":  "Co-chair, Gates Foundation",
		"about":     "Philanthropist",
		"profile_pic_url": "https://example.com/pic.jpg",
		"city":      "Seattle",
		"experiences": []interface{}{
			map[string]interface{}{"title": "Co-chair"},
		},
		"educations": []interface{}{
			map[string]interface{}{"school": "Harvard"},
		},
	}
}

func richOrgPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Microsoft",
		"description":    "Technology company",
		"website":        "https://microsoft.com",
		"employee_range": "10000+",
		"industries":     []interface{}{"Software"},
	}
}

func newFakeWorkflowServer(t *testing.T, healthy bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var body struct {
			URL string `json:"url"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if contains(body.URL, "company") {
			json.NewEncoder(w).Encode(richOrgPayload())
			return
		}
		json.NewEncoder(w).Encode(richProfilePayload())
	}))
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestQuickCheck_ReturnsNilWhenWorkflowReachable(t *testing.T) {
	server := newFakeWorkflowServer(t, true)
	defer server.Close()

	wf := workflow.New(workflow.Config{ProfileURL: server.URL, OrganizationURL: server.URL, RequestTimeout: 2 * time.Second})
	v := health.New(wf, "https://www.linkedin.com/in/williamhgates/", "https://www.linkedin.com/company/microsoft/")

	err := v.QuickCheck(context.Background())
	assert.NoError(t, err)
}

func TestComprehensiveCheck_HealthyWhenUpstreamReachableAndComplete(t *testing.T) {
	server := newFakeWorkflowServer(t, true)
	defer server.Close()

	wf := workflow.New(workflow.Config{ProfileURL: server.URL, OrganizationURL: server.URL, RequestTimeout: 2 * time.Second})
	v := health.New(wf, "https://www.linkedin.com/in/williamhgates/", "https://www.linkedin.com/company/microsoft/")

	report := v.ComprehensiveCheck(context.Background())
	assert.True(t, report.ProfileCheckOK)
	assert.True(t, report.OrganizationCheckOK)
	assert.Equal(t, domain.HealthHealthy, report.Status)
}

func TestComprehensiveCheck_UnhealthyWhenUpstreamUnreachable(t *testing.T) {
	server := newFakeWorkflowServer(t, false)
	defer server.Close()

	wf := workflow.New(workflow.Config{ProfileURL: server.URL, OrganizationURL: server.URL, RequestTimeout: 2 * time.Second, MaxRetries: 1})
	v := health.New(wf, "https://www.linkedin.com/in/williamhgates/", "https://www.linkedin.com/company/microsoft/")

	report := v.ComprehensiveCheck(context.Background())
	assert.Equal(t, domain.HealthUnhealthy, report.Status)
	assert.False(t, report.ProfileCheckOK)
}
