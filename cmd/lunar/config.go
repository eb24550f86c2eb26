package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/viper"

	"github.com/pdiddy/lunar/internal/httputil"
	"github.com/pdiddy/lunar/internal/retrieve"
	"github.com/pdiddy/lunar/internal/search"
	"github.com/pdiddy/lunar/internal/secrets"
	"github.com/pdiddy/lunar/internal/summarize"
	"github.com/pdiddy/lunar/pkg/types"
)

// setDefaults registers every configuration key with its default so that
// environment variables are honored for keys absent from the config file.
func setDefaults() {
	d := types.DefaultConfig()

	viper.SetDefault("http.timeout", d.HTTP.Timeout)
	viper.SetDefault("http.user_agent", d.HTTP.UserAgent)

	viper.SetDefault("search.backend", d.Search.Backend)
	viper.SetDefault("search.max_results", d.Search.MaxResults)
	viper.SetDefault("search.strict", d.Search.Strict)
	viper.SetDefault("search.rate_limit", d.Search.RateLimit)
	viper.SetDefault("search.email", "")
	viper.SetDefault("search.api_key", "")

	viper.SetDefault("summarize.provider", string(d.Summarize.Provider))
	viper.SetDefault("summarize.model", d.Summarize.Model)
	viper.SetDefault("summarize.min_length", d.Summarize.MinLength)
	viper.SetDefault("summarize.max_length", d.Summarize.MaxLength)
	viper.SetDefault("summarize.max_retries", d.Summarize.MaxRetries)
	viper.SetDefault("summarize.api_key", "")

	viper.SetDefault("retrieve.url_template", d.Retrieve.URLTemplate)
	viper.SetDefault("retrieve.output_dir", d.Retrieve.OutputDir)

	viper.SetDefault("log.level", d.Log.Level)
}

// loadConfig reads the effective configuration from viper and fills API
// keys from the environment and .secrets/ when the config leaves them empty.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	cfg.Search.HTTPConfig = cfg.HTTP
	cfg.Retrieve.HTTPConfig = cfg.HTTP
	cfg.Summarize.HTTPConfig = cfg.HTTP

	cfg.Summarize.APIKey = firstNonEmpty(cfg.Summarize.APIKey, os.Getenv("ANTHROPIC_API_KEY"), loadedSecrets.Get(secrets.AnthropicAPIKey))
	cfg.Search.APIKey = firstNonEmpty(cfg.Search.APIKey, os.Getenv("SEMANTIC_SCHOLAR_API_KEY"), loadedSecrets.Get(secrets.SemanticScholarAPIKey))
	cfg.Search.Email = firstNonEmpty(cfg.Search.Email, os.Getenv("OPENALEX_EMAIL"), loadedSecrets.Get(secrets.OpenAlexEmail))
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func newSearcher(cfg types.Config) (*search.Searcher, error) {
	client := httputil.NewClient(cfg.Search.HTTPConfig, cfg.Search.RateLimit)
	backend, err := search.NewBackend(client, cfg.Search)
	if err != nil {
		return nil, err
	}
	return search.New(backend, cfg.Search, logger), nil
}

func newSummarizer(cfg types.Config) (summarize.Summarizer, error) {
	return summarize.New(cfg.Summarize)
}

func newRetriever(cfg types.Config) *retrieve.Retriever {
	client := &http.Client{Timeout: cfg.Retrieve.Timeout}
	return retrieve.New(client, cfg.Retrieve, logger)
}
