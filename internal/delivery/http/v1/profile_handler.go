package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/internal/delivery/http/response"
	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/orchestrator"
	"github.com/jexpert/profile-enrichment/internal/orgsvc"
	"github.com/jexpert/profile-enrichment/pkg/apperror"
)

// ProfileHandler serves the /profiles resource (spec.md §6). It carries no
// business logic of its own — every call delegates to the orchestrator or
// a repository and translates the result into the §7 envelope.
type ProfileHandler struct {
	orchestrator  *orchestrator.Orchestrator
	profiles      domain.ProfileRepository
	organizations domain.OrganizationRepository
	edges         domain.EdgeRepository
}

func NewProfileHandler(rg *gin.RouterGroup, orch *orchestrator.Orchestrator, profiles domain.ProfileRepository, organizations domain.OrganizationRepository, edges domain.EdgeRepository) {
	h := &ProfileHandler{orchestrator: orch, profiles: profiles, organizations: organizations, edges: edges}

	profiles_ := rg.Group("/profiles")
	{
		profiles_.GET("", h.List)
		profiles_.GET("/:id", h.Get)
		profiles_.POST("", h.Create)
		profiles_.DELETE("/:id", h.Delete)
	}
}

type createProfileRequest struct {
	LinkedInURL      string `json:"linkedin_url" binding:"required,url"`
	IncludeCompanies *bool  `json:"include_companies"`
}

// Create ingests a profile URL (§4.5). If a profile for the normalized URL
// already exists, the ingestion still runs (merging in place, per S2's
// updated_at-increases requirement) but the response is 409 with the
// existing id rather than 201.
func (h *ProfileHandler) Create(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.InvalidLinkedInURL(err.Error()))
		return
	}

	includeCompanies := true
	if req.IncludeCompanies != nil {
		includeCompanies = *req.IncludeCompanies
	}

	normalizedURL := orgsvc.NormalizeURL(req.LinkedInURL)
	existing, err := h.profiles.GetByURL(c.Request.Context(), normalizedURL)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	requestID, result, err := h.orchestrator.ProcessProfile(c.Request.Context(), orchestrator.Request{
		LinkedInURL:          req.LinkedInURL,
		IncludeOrganizations: includeCompanies,
	}, "")
	if err != nil {
		c.Error(err)
		return
	}

	if existing != nil {
		c.Error(apperror.AlreadyExists(existing.ID))
		return
	}

	response.Created(c, gin.H{
		"request_id":    requestID,
		"profile":       result.Profile,
		"organizations": result.Organizations,
	})
}

// Get fetches a profile by internal id, optionally embedding linked
// organizations when include_companies=true.
func (h *ProfileHandler) Get(c *gin.Context) {
	id := c.Param("id")
	profile, err := h.profiles.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if profile == nil {
		c.Error(apperror.ProfileNotFound("profile not found"))
		return
	}

	if c.Query("include_companies") != "true" {
		response.JSON(c, http.StatusOK, gin.H{"profile": profile})
		return
	}

	edges, err := h.edges.ListByProfile(c.Request.Context(), profile.ID)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	organizations := make([]*domain.Organization, 0, len(edges))
	seen := make(map[string]bool, len(edges))
	for _, edge := range edges {
		if seen[edge.OrganizationID] {
			continue
		}
		seen[edge.OrganizationID] = true
		org, err := h.organizations.GetByID(c.Request.Context(), edge.OrganizationID)
		if err != nil || org == nil {
			continue
		}
		organizations = append(organizations, org)
	}

	response.JSON(c, http.StatusOK, gin.H{"profile": profile, "organizations": organizations})
}

// List serves paginated/filterable profile listing (§4.6).
func (h *ProfileHandler) List(c *gin.Context) {
	limit, err := parseLimit(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.Error(err)
		return
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	filter := domain.ProfileFilter{
		LinkedInURL: c.Query("linkedin_url"),
		Name:        c.Query("name"),
		Company:     c.Query("company"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Limit:       limit,
		Offset:      offset,
	}
	if filter.LinkedInURL != "" {
		filter.LinkedInURL = orgsvc.NormalizeURL(filter.LinkedInURL)
	}

	profiles, total, err := h.profiles.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"profiles": profiles,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"has_more": int64(offset+len(profiles)) < total,
	})
}

// Delete removes a profile; cascades to edges and scoring jobs are
// enforced by foreign-key constraints at the schema level.
func (h *ProfileHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	profile, err := h.profiles.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if profile == nil {
		c.Error(apperror.ProfileNotFound("profile not found"))
		return
	}
	if err := h.profiles.Delete(c.Request.Context(), id); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.NoContent(c)
}

// parseLimit enforces the §8 boundary: 0 is a valid empty-page request,
// 100 is the maximum, 101+ is rejected.
func parseLimit(raw string) (int, error) {
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.BadRequest("limit must be an integer")
	}
	if limit < 0 || limit > 100 {
		return 0, apperror.BadRequest("limit must be between 0 and 100")
	}
	return limit, nil
}
