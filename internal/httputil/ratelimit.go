// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/lunar/pkg/types"
)

// LimitedTransport is an http.RoundTripper that waits on a token-bucket
// limiter before every request. The wait honors the request context.
type LimitedTransport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

// RoundTrip implements http.RoundTripper.
func (t *LimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewClient returns an http.Client bounded by cfg.Timeout. When perSecond is
// positive, requests are limited to that rate with a burst of one.
func NewClient(cfg types.HTTPConfig, perSecond float64) *http.Client {
	client := &http.Client{Timeout: cfg.Timeout}
	if perSecond > 0 {
		client.Transport = &LimitedTransport{
			Base:    http.DefaultTransport,
			Limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		}
	}
	return client
}
