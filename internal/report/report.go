// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders summarized search results for display. Format
// produces the labelled text report; FormatJSON and FormatCSL render the same
// entries for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/lunar/pkg/types"
)

// Empty is the report for a search with no entries.
const Empty = "No papers found."

// UnknownAuthors stands in for an empty author list.
const UnknownAuthors = "Unknown"

// Style names a rendering selectable with --format.
type Style string

const (
	StyleText Style = "text"
	StyleJSON Style = "json"
	StyleCSL  Style = "csl"
)

// ParseStyle validates a --format value. An empty value selects text.
func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case "", StyleText:
		return StyleText, nil
	case StyleJSON, StyleCSL:
		return st, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, or csl)", s)
	}
}

// Format renders one block per entry, blocks separated by a blank line.
func Format(entries []types.ReportEntry) string {
	if len(entries) == 0 {
		return Empty
	}
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = block(e)
	}
	return strings.Join(blocks, "\n\n")
}

func block(e types.ReportEntry) string {
	c := e.Candidate
	summary := e.Summary
	if e.Failed() {
		// Provider errors can carry raw response bodies; keep them on one line.
		summary = "unavailable (" + strings.Join(strings.Fields(e.SummaryErr.Error()), " ") + ")"
	}
	authors := strings.Join(c.Authors, ", ")
	if strings.TrimSpace(authors) == "" {
		authors = UnknownAuthors
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Title**: %s\n", c.Title)
	fmt.Fprintf(&b, "**Authors**: %s\n", authors)
	fmt.Fprintf(&b, "**Summary**: %s\n", summary)
	fmt.Fprintf(&b, "**Link**: %s", c.Link)
	return b.String()
}

// Footer describes a search that returned fewer candidates than requested.
// It returns "" when the request was filled.
func Footer(returned, requested int) string {
	if returned >= requested || returned == 0 {
		return ""
	}
	return fmt.Sprintf("Only %d of %d requested papers were found.", returned, requested)
}

// jsonEntry is the JSON view of a ReportEntry. Summary failures are carried
// as text since error values do not marshal.
type jsonEntry struct {
	types.Candidate
	Summary      string `json:"summary,omitempty"`
	SummaryError string `json:"summary_error,omitempty"`
}

// FormatJSON writes entries as an indented JSON array to w.
func FormatJSON(entries []types.ReportEntry, w io.Writer) error {
	out := make([]jsonEntry, len(entries))
	for i, e := range entries {
		out[i] = jsonEntry{Candidate: e.Candidate, Summary: e.Summary}
		if e.Failed() {
			out[i].SummaryError = e.SummaryErr.Error()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Write renders entries in style st to w.
func Write(st Style, entries []types.ReportEntry, w io.Writer) error {
	switch st {
	case StyleJSON:
		return FormatJSON(entries, w)
	case StyleCSL:
		return FormatCSL(entries, w)
	default:
		_, err := fmt.Fprintln(w, Format(entries))
		return err
	}
}
