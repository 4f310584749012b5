package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jexpert/profile-enrichment/internal/delivery/http/response"
	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/pkg/apperror"
)

// TemplateHandler serves the prompt-template CRUD surface (§4.8, §6).
type TemplateHandler struct {
	templates domain.TemplateRepository
}

func NewTemplateHandler(rg *gin.RouterGroup, templates domain.TemplateRepository) {
	h := &TemplateHandler{templates: templates}

	group := rg.Group("/templates")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Deactivate)
	}
}

type createTemplateRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	Category    domain.TemplateCategory `json:"category" binding:"required,oneof=CTO CIO CISO"`
	PromptText  string                  `json:"prompt_text" binding:"required"`
}

func (h *TemplateHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	tmpl := domain.NewTemplate(req.Name, req.Description, req.Category, req.PromptText)
	if err := h.templates.Create(c.Request.Context(), tmpl); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Created(c, gin.H{"template": tmpl})
}

func (h *TemplateHandler) Get(c *gin.Context) {
	tmpl, err := h.templates.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if tmpl == nil {
		c.Error(apperror.TemplateNotFound("template not found"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"template": tmpl})
}

func (h *TemplateHandler) List(c *gin.Context) {
	category := domain.TemplateCategory(c.Query("category"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	templates, total, err := h.templates.List(c.Request.Context(), category, limit, offset)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"templates": templates, "total": total, "limit": limit, "offset": offset})
}

type updateTemplateRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	Category    domain.TemplateCategory `json:"category" binding:"required,oneof=CTO CIO CISO"`
	PromptText  string                  `json:"prompt_text" binding:"required"`
}

func (h *TemplateHandler) Update(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.templates.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if existing == nil {
		c.Error(apperror.TemplateNotFound("template not found"))
		return
	}

	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Category = req.Category
	existing.PromptText = req.PromptText
	existing.UpdatedAt = time.Now().UTC()

	if err := h.templates.Update(c.Request.Context(), existing); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"template": existing})
}

func (h *TemplateHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.templates.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if existing == nil {
		c.Error(apperror.TemplateNotFound("template not found"))
		return
	}
	if err := h.templates.Deactivate(c.Request.Context(), id); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.NoContent(c)
}
