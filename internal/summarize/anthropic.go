// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	llmtypes "github.com/aktagon/llmkit/anthropic/types"

	"github.com/pdiddy/lunar/pkg/types"
)

const systemPromptTemplate = `You summarize academic paper abstracts for a researcher skimming search results.
Write one plain-text paragraph of between %d and %d words.
State the problem, the approach, and the main finding when the abstract gives them.
Do not add facts that are not in the abstract. Do not use Markdown, headings, or lists.
If the text says no abstract is available, reply with exactly: No abstract available.`

// promptFunc sends one prompt and returns the first text block of the reply.
type promptFunc func(system, user, apiKey string, settings llmtypes.RequestSettings) (string, error)

// anthropicPrompt calls the Anthropic Messages API through llmkit.
func anthropicPrompt(system, user, apiKey string, settings llmtypes.RequestSettings) (string, error) {
	response, err := anthropic.PromptWithSettings(system, user, "", apiKey, settings)
	if err != nil {
		return "", err
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	return response.Content[0].Text, nil
}

// backoffBase controls the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// AnthropicSummarizer summarizes with a Claude model using greedy decoding.
type AnthropicSummarizer struct {
	apiKey     string
	model      string
	bounds     Bounds
	maxRetries int
	timeout    time.Duration
	prompt     promptFunc
}

// NewAnthropic returns a summarizer for the configured model. An API key is
// required.
func NewAnthropic(cfg types.SummarizeConfig) (*AnthropicSummarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic summarizer: API key required (set ANTHROPIC_API_KEY, summarize.api_key, or .secrets/anthropic-api-key)")
	}
	bounds, err := boundsFrom(cfg)
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = types.DefaultModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}
	return &AnthropicSummarizer{
		apiKey:     cfg.APIKey,
		model:      model,
		bounds:     bounds,
		maxRetries: maxRetries,
		timeout:    timeout,
		prompt:     anthropicPrompt,
	}, nil
}

// Summarize returns a summary of text within the configured word bounds.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	system := fmt.Sprintf(systemPromptTemplate, s.bounds.Min, s.bounds.Max)
	user := "Abstract:\n\n" + strings.TrimSpace(text)
	// llmkit omits a zero temperature from the request; TopK 1 forces
	// greedy decoding instead.
	settings := llmtypes.RequestSettings{
		Model:       s.model,
		MaxTokens:   s.bounds.Max*2 + 64,
		Temperature: 0,
		TopK:        1,
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", summarizeFailed("cancelled", ctx.Err())
			case <-time.After(wait):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		out, err := s.call(attemptCtx, system, user, settings)
		cancel()
		if err == nil {
			out = strings.TrimSpace(out)
			if out == "" {
				lastErr = fmt.Errorf("empty summary")
				continue
			}
			return Truncate(out, s.bounds.Max), nil
		}
		if ctx.Err() != nil {
			return "", summarizeFailed("cancelled", ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("request timed out after %s: %w", s.timeout, err)
		}
		lastErr = err
	}
	return "", summarizeFailed(fmt.Sprintf("after %d attempt(s)", s.maxRetries+1), lastErr)
}

// call runs the blocking prompt in a goroutine so ctx bounds the wait. llmkit
// takes no context, so an abandoned request finishes in the background.
func (s *AnthropicSummarizer) call(ctx context.Context, system, user string, settings llmtypes.RequestSettings) (string, error) {
	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		text, err := s.prompt(system, user, s.apiKey, settings)
		ch <- reply{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.text, r.err
	}
}
