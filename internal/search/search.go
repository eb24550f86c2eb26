// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries one bibliographic provider and returns a bounded,
// provider-ranked list of candidate papers. Every candidate leaves this
// package with a cleaned abstract (or the NoAbstract sentinel) and a link.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/pdiddy/lunar/internal/failure"
	"github.com/pdiddy/lunar/pkg/types"
)

// Backend searches a single bibliographic API. Implementations return raw
// candidates in the provider's ranking order; they do not build links or
// substitute missing abstracts.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.Candidate, error)
}

// Output holds the candidates of one search and the count that was asked for.
type Output struct {
	Query      string
	Backend    string
	Requested  int
	Candidates []types.Candidate
}

// Exhausted reports whether the provider returned fewer candidates than
// requested.
func (o Output) Exhausted() bool {
	return len(o.Candidates) < o.Requested
}

// Shortfall returns how many candidates are missing from the requested count.
func (o Output) Shortfall() int {
	if o.Exhausted() {
		return o.Requested - len(o.Candidates)
	}
	return 0
}

// Searcher is the literature search client. It is safe to reuse across
// searches; it holds no per-search state.
type Searcher struct {
	backend   Backend
	cfg       types.SearchConfig
	log       *slog.Logger
	converter *md.Converter
}

// New returns a Searcher over backend. A non-positive MaxResults falls back
// to types.DefaultMaxResults.
func New(backend Backend, cfg types.SearchConfig, log *slog.Logger) *Searcher {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = types.DefaultMaxResults
	}
	if log == nil {
		log = slog.Default()
	}
	return &Searcher{
		backend:   backend,
		cfg:       cfg,
		log:       log,
		converter: md.NewConverter("", true, nil),
	}
}

// Search fetches up to MaxResults candidates for query. It returns a NoResults
// failure when the provider has nothing, and a SearchExhausted failure for a
// short list only when the searcher is strict; otherwise the short list is
// returned and Output.Exhausted reports it.
func (s *Searcher) Search(ctx context.Context, query string) (Output, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Output{}, fmt.Errorf("query is empty: provide a research topic")
	}

	out := Output{
		Query:     query,
		Backend:   s.backend.Name(),
		Requested: s.cfg.MaxResults,
	}

	s.log.Debug("searching", "backend", out.Backend, "query", query, "limit", out.Requested)

	raw, err := s.backend.Search(ctx, query, s.cfg.MaxResults)
	if err != nil {
		return out, fmt.Errorf("%s search: %w", out.Backend, err)
	}
	if len(raw) > s.cfg.MaxResults {
		raw = raw[:s.cfg.MaxResults]
	}

	for _, c := range raw {
		out.Candidates = append(out.Candidates, s.finish(c))
	}

	if len(out.Candidates) == 0 {
		return out, &failure.Error{Kind: failure.NoResults, Op: "search", Detail: fmt.Sprintf("%s returned nothing for %q", out.Backend, query)}
	}
	if out.Exhausted() {
		if s.cfg.Strict {
			return out, &failure.Error{
				Kind:   failure.SearchExhausted,
				Op:     "search",
				Detail: fmt.Sprintf("got %d of %d results", len(out.Candidates), out.Requested),
			}
		}
		s.log.Warn("provider returned fewer results than requested",
			"backend", out.Backend, "got", len(out.Candidates), "requested", out.Requested)
	}
	return out, nil
}

// finish normalizes a raw backend candidate: whitespace, abstract cleanup,
// and link construction.
func (s *Searcher) finish(c types.Candidate) types.Candidate {
	c.Title = collapseSpace(c.Title)
	c.Identifier = strings.TrimSpace(c.Identifier)
	c.Abstract = cleanAbstract(s.converter, c.Abstract)

	authors := c.Authors[:0:0]
	for _, a := range c.Authors {
		if a = collapseSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	c.Authors = authors

	if c.Source == "" {
		c.Source = s.backend.Name()
	}
	c.Link = Link(c.Title, c.Identifier)
	return c
}

// Backend names accepted by NewBackend.
const (
	BackendScholar  = "scholar"
	BackendOpenAlex = "openalex"
	BackendSemantic = "semantic_scholar"
	BackendArxiv    = "arxiv"
)

// BackendNames lists the supported backends in sorted order.
func BackendNames() []string {
	names := []string{BackendScholar, BackendOpenAlex, BackendSemantic, BackendArxiv}
	sort.Strings(names)
	return names
}

// NewBackend constructs the backend named by cfg.Backend.
func NewBackend(client *http.Client, cfg types.SearchConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendScholar:
		return &ScholarBackend{Client: client, UserAgent: cfg.UserAgent}, nil
	case BackendOpenAlex:
		return &OpenAlexBackend{Client: client, UserAgent: cfg.UserAgent, Email: cfg.Email}, nil
	case BackendSemantic:
		return &SemanticScholarBackend{Client: client, UserAgent: cfg.UserAgent, APIKey: cfg.APIKey}, nil
	case BackendArxiv:
		return &ArxivBackend{Client: client, UserAgent: cfg.UserAgent}, nil
	default:
		return nil, fmt.Errorf("unknown search backend %q (want one of %s)", cfg.Backend, strings.Join(BackendNames(), ", "))
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
