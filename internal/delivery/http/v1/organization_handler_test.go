package v1_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	v1 "github.com/jexpert/profile-enrichment/internal/delivery/http/v1"
	"github.com/jexpert/profile-enrichment/internal/delivery/http/middleware"
	"github.com/jexpert/profile-enrichment/internal/domain"
)

func newTestOrgRouter(orgs *mockOrgRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	api := r.Group("/api/v1")
	v1.NewOrganizationHandler(api, orgs)
	return r
}

func TestOrganizationGet_Returns200WithBody(t *testing.T) {
	orgs := new(mockOrgRepo)
	orgs.On("GetByID", mock.Anything, "org-1").Return(&domain.Organization{ID: "org-1", Name: "Acme"}, nil)

	r := newTestOrgRouter(orgs)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/org-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrganizationGet_Returns404WhenMissing(t *testing.T) {
	orgs := new(mockOrgRepo)
	orgs.On("GetByID", mock.Anything, "missing").Return(nil, nil)

	r := newTestOrgRouter(orgs)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
