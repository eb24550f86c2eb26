// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize shortens paper abstracts to a configured word range.
// Summarizers are constructed once per process and passed to their callers;
// provider failures surface as failure.SummarizationFailed errors and never
// as summary text.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/lunar/internal/failure"
	"github.com/pdiddy/lunar/pkg/types"
)

// Summarizer produces a summary for a block of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Bounds is an inclusive word-count range for summaries.
type Bounds struct {
	Min int
	Max int
}

// boundsFrom applies defaults and validates the configured range.
func boundsFrom(cfg types.SummarizeConfig) (Bounds, error) {
	b := Bounds{Min: cfg.MinLength, Max: cfg.MaxLength}
	if b.Min <= 0 {
		b.Min = types.DefaultMinLength
	}
	if b.Max <= 0 {
		b.Max = types.DefaultMaxLength
	}
	if b.Min > b.Max {
		return Bounds{}, fmt.Errorf("summary min_length %d exceeds max_length %d", b.Min, b.Max)
	}
	return b, nil
}

// New constructs the summarizer selected by cfg.Provider.
func New(cfg types.SummarizeConfig) (Summarizer, error) {
	switch cfg.Provider {
	case "", types.SummarizerAnthropic:
		return NewAnthropic(cfg)
	case types.SummarizerExtractive:
		return NewExtractive(cfg)
	default:
		return nil, fmt.Errorf("unknown summarization provider %q (want anthropic or extractive)", cfg.Provider)
	}
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Truncate cuts s to at most max words, marking the cut with an ellipsis on
// the last kept word. Whitespace is collapsed either way.
func Truncate(s string, max int) string {
	words := strings.Fields(s)
	if max <= 0 || len(words) <= max {
		return strings.Join(words, " ")
	}
	kept := words[:max]
	last := strings.TrimRight(kept[max-1], ",;:")
	kept[max-1] = last + "…"
	return strings.Join(kept, " ")
}

func summarizeFailed(detail string, err error) *failure.Error {
	return &failure.Error{Kind: failure.SummarizationFailed, Op: "summarize", Detail: detail, Err: err}
}
