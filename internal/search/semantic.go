// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/lunar/internal/httputil"
	"github.com/pdiddy/lunar/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year"

// arxivDOIPrefix turns an arXiv ID into the DOI arXiv registers for it.
const arxivDOIPrefix = "10.48550/arXiv."

// SemanticScholarBackend queries the Semantic Scholar API.
type SemanticScholarBackend struct {
	Client    *http.Client
	UserAgent string
	APIKey    string
}

// Name returns the backend identifier.
func (b *SemanticScholarBackend) Name() string { return BackendSemantic }

// Search queries the Semantic Scholar API and returns results in relevance order.
func (b *SemanticScholarBackend) Search(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	if limit <= 0 {
		limit = types.DefaultMaxResults
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("x-api-key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	results := make([]types.Candidate, 0, len(sr.Data))
	for _, paper := range sr.Data {
		c := types.Candidate{
			Title:    paper.Title,
			Abstract: paper.Abstract,
			Year:     paper.Year,
			Source:   BackendSemantic,
		}
		for _, a := range paper.Authors {
			c.Authors = append(c.Authors, a.Name)
		}

		// DOI first; arXiv preprints get their registered arXiv DOI.
		switch {
		case paper.ExternalIDs.DOI != "":
			c.Identifier = paper.ExternalIDs.DOI
		case paper.ExternalIDs.ArXiv != "":
			c.Identifier = arxivDOIPrefix + paper.ExternalIDs.ArXiv
		}
		results = append(results, c)
	}
	return results, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string              `json:"paperId"`
	Title       string              `json:"title"`
	Abstract    string              `json:"abstract"`
	Year        int                 `json:"year"`
	Authors     []semanticAuthor    `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}
