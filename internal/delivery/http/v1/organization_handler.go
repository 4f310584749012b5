package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/internal/delivery/http/response"
	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/pkg/apperror"
)

// OrganizationHandler serves GET /companies/{id} (spec.md §6 names the
// resource "companies" at the wire level; internally it is Organization).
type OrganizationHandler struct {
	organizations domain.OrganizationRepository
}

func NewOrganizationHandler(rg *gin.RouterGroup, organizations domain.OrganizationRepository) {
	h := &OrganizationHandler{organizations: organizations}
	rg.GET("/companies/:id", h.Get)
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	id := c.Param("id")
	org, err := h.organizations.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if org == nil {
		c.Error(apperror.OrganizationNotFound("organization not found"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"organization": org})
}
