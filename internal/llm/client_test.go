package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jexpert/profile-enrichment/internal/llm"
)

func TestNew_RejectsEmptyAPIKey(t *testing.T) {
	_, err := llm.New(llm.Config{})
	require.Error(t, err)
}

func TestNew_SucceedsWithAPIKey(t *testing.T) {
	client, err := llm.New(llm.Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}
