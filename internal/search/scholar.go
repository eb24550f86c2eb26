// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/lunar/internal/httputil"
	"github.com/pdiddy/lunar/pkg/types"
)

// scholarSearchBase is the Google Scholar results page. Declared as a var so
// tests can substitute an httptest server.
var scholarSearchBase = "https://scholar.google.com/scholar"

var (
	// doiInURL finds a DOI embedded in a publisher link.
	doiInURL = regexp.MustCompile(`10\.\d{4,9}/[^\s?#&"<>]+`)

	// yearInByline finds a four-digit year in the "authors - venue, year - host" line.
	yearInByline = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// ScholarBackend scrapes the Google Scholar results page.
type ScholarBackend struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the backend identifier.
func (b *ScholarBackend) Name() string { return BackendScholar }

// Search fetches one results page and extracts up to limit entries.
func (b *ScholarBackend) Search(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	params := url.Values{
		"q":  {query},
		"hl": {"en"},
	}
	if limit > 0 {
		params.Set("num", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scholarSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 2)
	if err != nil {
		return nil, fmt.Errorf("Google Scholar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google Scholar returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing Google Scholar page: %w", err)
	}

	results := extractScholarResults(doc, limit)
	if len(results) == 0 && isBlocked(doc) {
		return nil, fmt.Errorf("Google Scholar refused the request (captcha)")
	}
	return results, nil
}

// extractScholarResults walks the result blocks in page order.
func extractScholarResults(doc *goquery.Document, limit int) []types.Candidate {
	var results []types.Candidate
	doc.Find("div.gs_r.gs_or").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if limit > 0 && len(results) >= limit {
			return false
		}

		heading := s.Find("h3.gs_rt").First()
		// Drop the [PDF]/[HTML]/[CITATION] badges before reading the title.
		heading.Find("span.gs_ctc, span.gs_ctg2, span.gs_ct1, span.gs_ct2").Remove()
		title := strings.TrimSpace(heading.Text())
		if title == "" {
			return true
		}

		href, _ := heading.Find("a").Attr("href")
		byline := s.Find("div.gs_a").First().Text()

		c := types.Candidate{
			Title:      title,
			Authors:    parseScholarAuthors(byline),
			Abstract:   s.Find("div.gs_rs").First().Text(),
			Identifier: doiFromURL(href),
			Source:     BackendScholar,
		}
		if m := yearInByline.FindString(byline); m != "" {
			c.Year, _ = strconv.Atoi(m)
		}
		results = append(results, c)
		return true
	})
	return results
}

// parseScholarAuthors reads the author segment of a byline such as
// "A Vaswani, N Shazeer, N Parmar… - Advances in neural…, 2017 - proceedings.neurips.cc".
func parseScholarAuthors(byline string) []string {
	byline = strings.ReplaceAll(byline, "\u00a0", " ")
	segment, _, _ := strings.Cut(byline, " - ")
	var authors []string
	for _, a := range strings.Split(segment, ",") {
		a = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(a), "…."))
		if a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// doiFromURL extracts a DOI from a result link, if the publisher URL embeds one.
func doiFromURL(href string) string {
	if href == "" {
		return ""
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	doi := doiInURL.FindString(href)
	for {
		trimmed := doi
		for _, suffix := range publisherSuffixes {
			trimmed = strings.TrimSuffix(trimmed, suffix)
		}
		trimmed = strings.TrimRight(trimmed, "/.")
		if trimmed == doi {
			break
		}
		doi = trimmed
	}
	return doi
}

// publisherSuffixes are view segments publishers append after the DOI in
// article URLs.
var publisherSuffixes = []string{
	"/full", "/abstract", "/pdf", "/epdf", "/pdfdirect", "/html", "/summary", "/references", ".pdf",
}

// isBlocked reports whether Scholar served its captcha page instead of results.
func isBlocked(doc *goquery.Document) bool {
	if doc.Find("#gs_captcha_ccl, #captcha-form, form#gs_captcha_f").Length() > 0 {
		return true
	}
	return strings.Contains(doc.Text(), "unusual traffic")
}
