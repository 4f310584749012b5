package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/internal/delivery/http/response"
	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/scoring"
	"github.com/jexpert/profile-enrichment/pkg/apperror"
)

// ScoringHandler serves the scoring-job endpoints (§4.7, §6): create,
// status, and retry. Job processing itself happens on the background
// worker pool; this layer only validates, persists, and enqueues.
type ScoringHandler struct {
	engine     *scoring.Engine
	workerPool *scoring.WorkerPool
	jobs       domain.ScoringJobRepository
	profiles   domain.ProfileRepository
}

func NewScoringHandler(rg *gin.RouterGroup, scoreGroup *gin.RouterGroup, engine *scoring.Engine, workerPool *scoring.WorkerPool, jobs domain.ScoringJobRepository, profiles domain.ProfileRepository) {
	h := &ScoringHandler{engine: engine, workerPool: workerPool, jobs: jobs, profiles: profiles}

	scoreGroup.POST("/profiles/:id/score", h.CreateJob)

	jobsGroup := rg.Group("/scoring-jobs")
	{
		jobsGroup.GET("/:id", h.GetJob)
		jobsGroup.POST("/:id/retry", h.RetryJob)
	}
}

type createScoringJobRequest struct {
	Prompt      string  `json:"prompt" binding:"required_without=TemplateID"`
	TemplateID  string  `json:"template_id" binding:"required_without=Prompt"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature" binding:"min=0,max=1"`
}

func (h *ScoringHandler) CreateJob(c *gin.Context) {
	profileID := c.Param("id")
	profile, err := h.profiles.GetByID(c.Request.Context(), profileID)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if profile == nil {
		c.Error(apperror.ProfileNotFound("profile not found"))
		return
	}

	var req createScoringJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job, err := h.engine.CreateJob(c.Request.Context(), profileID, req.Prompt, req.TemplateID, req.Model, req.MaxTokens, req.Temperature)
	if err != nil {
		if req.TemplateID != "" {
			c.Error(apperror.TemplateNotFound(err.Error()))
			return
		}
		c.Error(apperror.Internal(err))
		return
	}

	h.workerPool.Enqueue(job.ID)
	response.JSON(c, http.StatusOK, gin.H{"job": job})
}

func (h *ScoringHandler) GetJob(c *gin.Context) {
	id := c.Param("id")
	job, err := h.jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if job == nil {
		c.Error(apperror.JobNotFound("scoring job not found"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"job": job})
}

func (h *ScoringHandler) RetryJob(c *gin.Context) {
	id := c.Param("id")
	if err := h.engine.RetryJob(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, scoring.ErrJobNotFound):
			c.Error(apperror.JobNotFound("scoring job not found"))
		case errors.Is(err, scoring.ErrJobNotRetryable):
			c.Error(apperror.JobNotRetryable("scoring job is not retryable"))
		default:
			c.Error(apperror.Internal(err))
		}
		return
	}
	h.workerPool.Enqueue(id)

	job, err := h.jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"job": job})
}
