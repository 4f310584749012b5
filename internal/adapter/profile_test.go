package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jexpert/profile-enrichment/internal/adapter"
)

func TestToProfile_MissingEssentialFields(t *testing.T) {
	raw := map[string]interface{}{
		"headline": "Software Engineer",
	}

	_, err := adapter.ToProfile(raw)
	require.Error(t, err)

	var incomplete *adapter.IncompleteDataError
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.MissingFields, "external_profile_id")
	assert.Contains(t, incomplete.MissingFields, "url")
	assert.Contains(t, incomplete.MissingFields, "full_name")
}

func TestToProfile_AcceptsFirstLastNameWithoutFullName(t *testing.T) {
	raw := map[string]interface{}{
		"id":         "abc123",
		"url":        "https://www.linkedin.com/in/janedoe/",
		"first_name": "Jane",
		"last_name":  "Doe",
	}

	profile, err := adapter.ToProfile(raw)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.FullName)
}

func TestToProfile_PreservesExperienceOrder(t *testing.T) {
	raw := map[string]interface{}{
		"id":        "abc123",
		"url":       "https://www.linkedin.com/in/janedoe/",
		"full_name": "Jane Doe",
		"experiences": []interface{}{
			map[string]interface{}{"title": "Staff Engineer", "company_url": "https://www.linkedin.com/company/acme/"},
			map[string]interface{}{"title": "Senior Engineer", "company_url": "https://www.linkedin.com/company/old-co/"},
		},
	}

	profile, err := adapter.ToProfile(raw)
	require.NoError(t, err)
	require.Len(t, profile.Experiences, 2)
	assert.Equal(t, "Staff Engineer", profile.Experiences[0].Title)
	assert.Equal(t, "Senior Engineer", profile.Experiences[1].Title)
}

func TestToProfile_NormalizesURL(t *testing.T) {
	raw := map[string]interface{}{
		"id":        "abc123",
		"url":       "https://www.linkedin.com/in/janedoe/?trk=nav",
		"full_name": "Jane Doe",
	}

	profile, err := adapter.ToProfile(raw)
	require.NoError(t, err)
	assert.NotContains(t, profile.URL, "trk=")
}

func TestToProfile_DefaultsListsToEmptyNotNil(t *testing.T) {
	raw := map[string]interface{}{
		"id":        "abc123",
		"url":       "https://www.linkedin.com/in/janedoe/",
		"full_name": "Jane Doe",
	}

	profile, err := adapter.ToProfile(raw)
	require.NoError(t, err)
	assert.NotNil(t, profile.Certifications)
	assert.NotNil(t, profile.Languages)
	assert.NotNil(t, profile.Experiences)
	assert.NotNil(t, profile.Educations)
}
