// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	llmtypes "github.com/aktagon/llmkit/anthropic/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lunar/internal/failure"
	"github.com/pdiddy/lunar/pkg/types"
)

func init() {
	backoffBase = time.Millisecond
}

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "word"
	}
	return strings.Join(w, " ")
}

func newTestAnthropic(t *testing.T, fn promptFunc) *AnthropicSummarizer {
	t.Helper()
	s, err := NewAnthropic(types.SummarizeConfig{APIKey: "test-key", MaxRetries: 2})
	require.NoError(t, err)
	s.prompt = fn
	return s
}

func TestNew_SelectsProvider(t *testing.T) {
	s, err := New(types.SummarizeConfig{Provider: types.SummarizerExtractive})
	require.NoError(t, err)
	assert.IsType(t, &ExtractiveSummarizer{}, s)

	s, err = New(types.SummarizeConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicSummarizer{}, s)

	_, err = New(types.SummarizeConfig{Provider: "gpt"})
	assert.Error(t, err)
}

func TestNew_RejectsInvertedBounds(t *testing.T) {
	_, err := New(types.SummarizeConfig{Provider: types.SummarizerExtractive, MinLength: 120, MaxLength: 100})
	assert.Error(t, err)
}

func TestNewAnthropic_RequiresKey(t *testing.T) {
	_, err := NewAnthropic(types.SummarizeConfig{})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b c", Truncate("a  b\n c", 5))
	assert.Equal(t, "a b…", Truncate("a b, c d", 2))
	assert.Equal(t, 100, CountWords(Truncate(words(150), 100)))
}

func TestAnthropic_UsesDeterministicSettings(t *testing.T) {
	var gotSystem, gotUser string
	var gotSettings llmtypes.RequestSettings
	s := newTestAnthropic(t, func(system, user, apiKey string, settings llmtypes.RequestSettings) (string, error) {
		gotSystem, gotUser, gotSettings = system, user, settings
		assert.Equal(t, "test-key", apiKey)
		return words(60), nil
	})

	out, err := s.Summarize(context.Background(), "An abstract about lunar regolith.")
	require.NoError(t, err)
	assert.Equal(t, 60, CountWords(out))
	assert.Equal(t, float64(0), gotSettings.Temperature)
	assert.EqualValues(t, 1, gotSettings.TopK)
	assert.Equal(t, types.DefaultModel, gotSettings.Model)
	assert.Contains(t, gotSystem, "between 50 and 100 words")
	assert.Contains(t, gotUser, "lunar regolith")
}

func TestAnthropic_TruncatesLongOutput(t *testing.T) {
	s := newTestAnthropic(t, func(string, string, string, llmtypes.RequestSettings) (string, error) {
		return words(180), nil
	})
	out, err := s.Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 100, CountWords(out))
}

func TestAnthropic_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	s := newTestAnthropic(t, func(string, string, string, llmtypes.RequestSettings) (string, error) {
		if calls.Add(1) < 3 {
			return "", errors.New("overloaded")
		}
		return words(55), nil
	})
	out, err := s.Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 55, CountWords(out))
}

func TestAnthropic_FailureIsStructured(t *testing.T) {
	var calls atomic.Int32
	s := newTestAnthropic(t, func(string, string, string, llmtypes.RequestSettings) (string, error) {
		calls.Add(1)
		return "", errors.New("invalid x-api-key")
	})
	out, err := s.Summarize(context.Background(), "text")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, failure.Is(err, failure.SummarizationFailed))
	assert.ErrorIs(t, err, failure.ErrSummarizationFailed)
	assert.Contains(t, err.Error(), "invalid x-api-key")
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnthropic_EmptyReplyIsFailure(t *testing.T) {
	s := newTestAnthropic(t, func(string, string, string, llmtypes.RequestSettings) (string, error) {
		return "   ", nil
	})
	_, err := s.Summarize(context.Background(), "text")
	assert.True(t, failure.Is(err, failure.SummarizationFailed))
}

func TestAnthropic_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	s := newTestAnthropic(t, func(string, string, string, llmtypes.RequestSettings) (string, error) {
		<-block
		return "late", nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Summarize(ctx, "text")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.SummarizationFailed))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExtractive_StopsAtMinimum(t *testing.T) {
	s, err := NewExtractive(types.SummarizeConfig{MinLength: 5, MaxLength: 10})
	require.NoError(t, err)

	out, err := s.Summarize(context.Background(), "One two three. Four five six! Seven eight nine? Ten eleven.")
	require.NoError(t, err)
	assert.Equal(t, "One two three. Four five six!", out)
}

func TestExtractive_TruncatesToMaximum(t *testing.T) {
	s, err := NewExtractive(types.SummarizeConfig{})
	require.NoError(t, err)

	out, err := s.Summarize(context.Background(), words(140)+".")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultMaxLength, CountWords(out))
}

func TestExtractive_ShortTextReturnedWhole(t *testing.T) {
	s, err := NewExtractive(types.SummarizeConfig{})
	require.NoError(t, err)

	out, err := s.Summarize(context.Background(), types.NoAbstract)
	require.NoError(t, err)
	assert.Equal(t, types.NoAbstract, out)
}

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// withDefaultTransport replaces http.DefaultTransport for the duration of
// the test; llmkit sends through a default client.
func withDefaultTransport(t *testing.T, rt http.RoundTripper) {
	t.Helper()
	orig := http.DefaultTransport
	http.DefaultTransport = rt
	t.Cleanup(func() { http.DefaultTransport = orig })
}

const messageResponse = `{"id":"msg_01","type":"message","role":"assistant","model":"claude-sonnet-4-5-20250929",` +
	`"content":[{"type":"text","text":"A concise summary of the abstract."}],` +
	`"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":8}}`

func TestAnthropic_RequestIsGreedy(t *testing.T) {
	var body []byte
	withDefaultTransport(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(messageResponse)),
			Request:    r,
		}, nil
	}))

	s, err := NewAnthropic(types.SummarizeConfig{APIKey: "test-key"})
	require.NoError(t, err)
	_, _ = s.Summarize(context.Background(), "An abstract.")

	require.NotEmpty(t, body, "no request reached the transport")
	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))
	assert.EqualValues(t, 1, req["top_k"], "request body: %s", body)
	if temp, ok := req["temperature"]; ok {
		assert.EqualValues(t, 0, temp)
	}
}

func TestAnthropic_StalledRequestTimesOut(t *testing.T) {
	release := make(chan struct{})
	withDefaultTransport(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		<-release
		return nil, errors.New("transport closed")
	}))
	t.Cleanup(func() { close(release) })

	s, err := NewAnthropic(types.SummarizeConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 50 * time.Millisecond},
		APIKey:     "test-key",
		MaxRetries: 1,
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Summarize(context.Background(), "x")
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, failure.Is(err, failure.SummarizationFailed))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "timed out")
	case <-time.After(3 * time.Second):
		t.Fatal("Summarize did not return after the per-call timeout")
	}
}

func TestAnthropic_DefaultTimeout(t *testing.T) {
	s, err := NewAnthropic(types.SummarizeConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultTimeout, s.timeout)
}
