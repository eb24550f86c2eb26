package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lunar/internal/secrets"
	"github.com/pdiddy/lunar/pkg/types"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	loadedSecrets = secrets.Store{secrets.AnthropicAPIKey: "from-secrets"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "scholar", cfg.Search.Backend)
	assert.Equal(t, types.DefaultMaxResults, cfg.Search.MaxResults)
	assert.Equal(t, types.DefaultURLTemplate, cfg.Retrieve.URLTemplate)
	assert.Equal(t, types.DefaultTimeout, cfg.Retrieve.Timeout)
	assert.Equal(t, types.DefaultUserAgent, cfg.Search.UserAgent)
	assert.Equal(t, "from-secrets", cfg.Summarize.APIKey)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	viper.Set("search.max_results", 3)
	viper.Set("http.timeout", "5s")
	viper.Set("retrieve.output_dir", "papers")
	t.Cleanup(func() {
		viper.Set("search.max_results", types.DefaultMaxResults)
		viper.Set("http.timeout", types.DefaultTimeout)
		viper.Set("retrieve.output_dir", ".")
	})

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Search.MaxResults)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Retrieve.Timeout)
	assert.Equal(t, "papers", cfg.Retrieve.OutputDir)
	assert.Equal(t, "from-env", cfg.Summarize.APIKey)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
