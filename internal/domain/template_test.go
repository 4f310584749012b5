package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jexpert/profile-enrichment/internal/domain"
)

func TestIsKnownCategory(t *testing.T) {
	assert.True(t, domain.IsKnownCategory(domain.TemplateCategoryCTO))
	assert.True(t, domain.IsKnownCategory(domain.TemplateCategoryCIO))
	assert.True(t, domain.IsKnownCategory(domain.TemplateCategoryCISO))
	assert.False(t, domain.IsKnownCategory(domain.TemplateCategory("VP_SALES")))
	assert.False(t, domain.IsKnownCategory(domain.TemplateCategory("")))
}

func TestNewTemplate_StartsAtVersion1AndActive(t *testing.T) {
	tmpl := domain.NewTemplate("CTO Evaluation", "desc", domain.TemplateCategoryCTO, "prompt text")
	assert.Equal(t, 1, tmpl.Version)
	assert.True(t, tmpl.IsActive)
	assert.Equal(t, domain.TemplateCategoryCTO, tmpl.Category)
}
