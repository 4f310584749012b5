package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/config"
	"github.com/jexpert/profile-enrichment/internal/delivery/http/middleware"
	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/health"
	"github.com/jexpert/profile-enrichment/internal/orchestrator"
	"github.com/jexpert/profile-enrichment/internal/scoring"
	"github.com/jexpert/profile-enrichment/internal/tracker"
)

// RouterDeps wires every component the HTTP surface needs. Everything here
// is an interface or a concrete component constructed once in main and
// shared across handlers; the router itself holds no state.
type RouterDeps struct {
	Config *config.Config

	Orchestrator *orchestrator.Orchestrator
	Health       *health.Validator
	Tracker      *tracker.Tracker

	ScoringEngine *scoring.Engine
	WorkerPool    *scoring.WorkerPool

	Profiles      domain.ProfileRepository
	Organizations domain.OrganizationRepository
	Edges         domain.EdgeRepository
	ScoringJobs   domain.ScoringJobRepository
	Templates     domain.TemplateRepository
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	// Health probes are bare top-level paths, unauthenticated (§6).
	NewHealthHandler(r, deps.Health)

	api := r.Group("/api/v1")
	api.Use(middleware.APIKeyMiddleware(deps.Config.APIKeys))
	api.Use(middleware.RateLimitMiddleware(middleware.APIKeyRateLimitConfig(deps.Config.RateLimitGlobalPerHour)))

	NewProfileHandler(api, deps.Orchestrator, deps.Profiles, deps.Organizations, deps.Edges)
	NewOrganizationHandler(api, deps.Organizations)
	NewTemplateHandler(api, deps.Templates)
	NewTrackingHandler(api, deps.Tracker)

	// The per-profile scoring rate limit (§6) is scoped to the job-creation
	// route alone; it must not throttle the rest of /api/v1.
	scoreGroup := api.Group("")
	scoreGroup.Use(middleware.RateLimitMiddleware(middleware.ScoringPerProfileRateLimitConfig(deps.Config.RateLimitScoringPerHour)))
	NewScoringHandler(api, scoreGroup, deps.ScoringEngine, deps.WorkerPool, deps.ScoringJobs, deps.Profiles)

	return r
}
