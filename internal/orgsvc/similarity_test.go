package orgsvc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jexpert/profile-enrichment/internal/orgsvc"
)

func TestNameSimilarity_IgnoresCaseAndCorporateSuffixes(t *testing.T) {
	sim := orgsvc.NameSimilarity("Acme Inc", "ACME")
	assert.Equal(t, 1.0, sim)
}

func TestNameSimilarity_ZeroForDisjointNames(t *testing.T) {
	sim := orgsvc.NameSimilarity("Acme Corp", "Globex Group")
	assert.Equal(t, 0.0, sim)
}

func TestNamesMatch_RequiresThreshold(t *testing.T) {
	assert.True(t, orgsvc.NamesMatch("Acme Inc", "Acme LLC"))
	assert.False(t, orgsvc.NamesMatch("Acme Widgets", "Acme Gadgets"))
}
