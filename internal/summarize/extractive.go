// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"regexp"
	"strings"

	"github.com/pdiddy/lunar/pkg/types"
)

// sentenceEnd splits after ., ! or ? followed by whitespace.
var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// ExtractiveSummarizer builds a summary from the leading sentences of the
// text. It needs no network access and is deterministic.
type ExtractiveSummarizer struct {
	bounds Bounds
}

// NewExtractive returns an extractive summarizer for the configured bounds.
func NewExtractive(cfg types.SummarizeConfig) (*ExtractiveSummarizer, error) {
	bounds, err := boundsFrom(cfg)
	if err != nil {
		return nil, err
	}
	return &ExtractiveSummarizer{bounds: bounds}, nil
}

// Summarize keeps whole leading sentences until the minimum word count is
// reached, then truncates to the maximum. Texts shorter than the minimum are
// returned whole.
func (s *ExtractiveSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", summarizeFailed("cancelled", err)
	}

	var (
		kept  []string
		words int
	)
	for _, sentence := range splitSentences(text) {
		kept = append(kept, sentence)
		words += CountWords(sentence)
		if words >= s.bounds.Min {
			break
		}
	}
	return Truncate(strings.Join(kept, " "), s.bounds.Max), nil
}

func splitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(strings.TrimSpace(text), "$1\x00")
	var out []string
	for _, s := range strings.Split(marked, "\x00") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
