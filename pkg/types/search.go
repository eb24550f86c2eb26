// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the lunar pipeline:
// search candidates, report entries, retrieval results, and configuration.
package types

// NoAbstract is the sentinel stored in Candidate.Abstract when the provider
// returns no abstract for a paper.
const NoAbstract = "No abstract available"

// Candidate represents one paper returned by a literature search.
// Candidates are produced by a search backend and are read-only afterward.
type Candidate struct {
	// Title is the paper title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in provider order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract, or NoAbstract when unavailable.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Link is always populated: a DOI resolver URL when Identifier is set,
	// otherwise a Google Scholar search URL built from the title.
	Link string `json:"link" yaml:"link"`

	// Identifier is the DOI-like document identifier, or empty.
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`

	// Source names the backend that produced the candidate (e.g. "scholar").
	Source string `json:"source" yaml:"source"`

	// Year is the publication year, or 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`
}

// HasIdentifier reports whether the candidate carries a document identifier.
func (c Candidate) HasIdentifier() bool {
	return c.Identifier != ""
}

// ReportEntry pairs a candidate with the summary of its abstract. Exactly one
// of Summary and SummaryErr is meaningful: SummaryErr is non-nil when the
// summarization provider failed for this candidate.
type ReportEntry struct {
	Candidate  Candidate `json:"candidate" yaml:"candidate"`
	Summary    string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	SummaryErr error     `json:"-" yaml:"-"`
}

// Failed reports whether summarization failed for this entry.
func (e ReportEntry) Failed() bool {
	return e.SummaryErr != nil
}
