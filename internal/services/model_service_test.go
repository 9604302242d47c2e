package services

import (
	"testing"

	"projectarchitect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelCatalog_EmbeddedDefaultsAreListed(t *testing.T) {
	c, err := NewModelCatalog()
	require.NoError(t, err)

	m, ok := c.Lookup(models.DefaultProvider, models.DefaultModel)
	require.True(t, ok)
	assert.Equal(t, "openai:gpt-4o", m.Key)
	assert.Equal(t, "OpenAI", m.ProviderName)

	require.NotEmpty(t, c.Groups())
	assert.Equal(t, models.DefaultProvider, c.Groups()[0].ProviderID)
}

func TestModelCatalog_SkipsIncompleteEntries(t *testing.T) {
	c, err := parseModelCatalog([]byte(`{"providers":[
		{"id":"","models":[{"apiName":"ghost"}]},
		{"id":"OpenAI","displayName":"OpenAI","models":[{"apiName":" "},{"apiName":"gpt-x","contextWindow":8192}]}
	]}`))
	require.NoError(t, err)

	require.Len(t, c.Groups(), 1)
	require.Len(t, c.Groups()[0].Models, 1)
	m, ok := c.Lookup("openai", "gpt-x")
	assert.True(t, ok)
	assert.Equal(t, 8192, m.ContextWindow)

	_, ok = c.Lookup("openai", "ghost")
	assert.False(t, ok)
}

func TestModelCatalog_InvalidJSON(t *testing.T) {
	_, err := parseModelCatalog([]byte("{"))
	assert.Error(t, err)
}
