// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every component that makes
// network requests.
type HTTPConfig struct {
	// Timeout bounds each outbound request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the literature search client.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the provider: scholar, openalex, semantic_scholar, arxiv.
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// MaxResults bounds the candidate list (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Strict turns a short result list into a SearchExhausted failure.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// RateLimit is the maximum number of provider requests per second.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// Email is sent to OpenAlex as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// SummarizerProvider identifies the summarization backend.
type SummarizerProvider string

const (
	SummarizerAnthropic  SummarizerProvider = "anthropic"
	SummarizerExtractive SummarizerProvider = "extractive"
)

// SummarizeConfig holds settings for the summarization client. Lengths are
// counted in words.
type SummarizeConfig struct {
	// HTTPConfig.Timeout bounds each provider call.
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects anthropic or extractive.
	Provider SummarizerProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the AI model identifier used by the anthropic provider.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MinLength is the lower length bound of a summary (default 50).
	MinLength int `json:"min_length" yaml:"min_length" mapstructure:"min_length"`

	// MaxLength is the upper length bound of a summary (default 100).
	MaxLength int `json:"max_length" yaml:"max_length" mapstructure:"max_length"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// RetrieveConfig holds settings for the document retrieval client.
type RetrieveConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// URLTemplate is the document endpoint; "{identifier}" is replaced with
	// the requested identifier.
	URLTemplate string `json:"url_template" yaml:"url_template" mapstructure:"url_template"`

	// OutputDir is the directory PDFs are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// Config groups all component configurations.
type Config struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize" mapstructure:"summarize"`
	Retrieve  RetrieveConfig  `json:"retrieve" yaml:"retrieve" mapstructure:"retrieve"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}

// Default values shared by the CLI and tests.
const (
	DefaultMaxResults  = 5
	DefaultMinLength   = 50
	DefaultMaxLength   = 100
	DefaultMaxRetries  = 3
	DefaultTimeout     = 60 * time.Second
	DefaultUserAgent   = "lunar/0.1"
	DefaultURLTemplate = "https://sci-hub.se/{identifier}"
	DefaultModel       = "claude-sonnet-4-5-20250929"
	DefaultRateLimit   = 1.0
)

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	httpCfg := HTTPConfig{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent}
	return Config{
		HTTP: httpCfg,
		Search: SearchConfig{
			HTTPConfig: httpCfg,
			Backend:    "scholar",
			MaxResults: DefaultMaxResults,
			RateLimit:  DefaultRateLimit,
		},
		Summarize: SummarizeConfig{
			HTTPConfig: httpCfg,
			Provider:   SummarizerAnthropic,
			Model:      DefaultModel,
			MinLength:  DefaultMinLength,
			MaxLength:  DefaultMaxLength,
			MaxRetries: DefaultMaxRetries,
		},
		Retrieve: RetrieveConfig{
			HTTPConfig:  httpCfg,
			URLTemplate: DefaultURLTemplate,
			OutputDir:   ".",
		},
		Log: LogConfig{Level: "info"},
	}
}
