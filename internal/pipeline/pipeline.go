// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the search, summarization and retrieval clients
// into the two user actions: search a topic and receive a summarized
// report, or fetch one paper by identifier.
//
// Both actions always produce displayable text. Failures are rendered as
// descriptive messages in place of the result.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/pdiddy/lunar/internal/failure"
	"github.com/pdiddy/lunar/internal/report"
	"github.com/pdiddy/lunar/internal/search"
	"github.com/pdiddy/lunar/internal/summarize"
	"github.com/pdiddy/lunar/pkg/types"
)

// Searcher returns a bounded candidate list for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (search.Output, error)
}

// Retriever stores the document for an identifier.
type Retriever interface {
	Retrieve(ctx context.Context, identifier string) (*types.RetrievalResult, error)
}

// Tool runs the user actions. It holds no state between calls.
type Tool struct {
	searcher   Searcher
	summarizer summarize.Summarizer
	retriever  Retriever
	log        *slog.Logger
}

// New returns a Tool. A nil logger discards output.
func New(searcher Searcher, summarizer summarize.Summarizer, retriever Retriever, log *slog.Logger) *Tool {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tool{searcher: searcher, summarizer: summarizer, retriever: retriever, log: log}
}

// Result is a completed search with one entry per candidate, in order.
type Result struct {
	Search  search.Output
	Entries []types.ReportEntry
}

// Research searches for query and summarizes every candidate's abstract in
// order. A summarization failure is recorded on its entry and does not stop
// the remaining candidates. A search with no results returns an empty
// Result and no error.
func (t *Tool) Research(ctx context.Context, query string) (Result, error) {
	log := t.log.With("action", uuid.NewString())
	log.Info("search started", "query", query)

	out, err := t.searcher.Search(ctx, query)
	if err != nil {
		if failure.Is(err, failure.NoResults) {
			return Result{Search: out}, nil
		}
		return Result{Search: out}, err
	}

	res := Result{Search: out, Entries: make([]types.ReportEntry, 0, len(out.Candidates))}
	for i, c := range out.Candidates {
		entry := types.ReportEntry{Candidate: c}
		if c.Abstract == types.NoAbstract {
			entry.Summary = types.NoAbstract
		} else {
			entry.Summary, entry.SummaryErr = t.summarizer.Summarize(ctx, c.Abstract)
		}
		if entry.Failed() {
			log.Warn("summary unavailable", "index", i+1, "title", c.Title, "err", entry.SummaryErr)
		} else {
			log.Debug("summarized", "index", i+1, "words", summarize.CountWords(entry.Summary))
		}
		res.Entries = append(res.Entries, entry)
	}
	log.Info("search finished", "papers", len(res.Entries), "requested", out.Requested)
	return res, nil
}

// SubmitQuery runs the search action and returns the formatted report, or a
// description of what went wrong.
func (t *Tool) SubmitQuery(ctx context.Context, query string) string {
	res, err := t.Research(ctx, query)
	if err != nil {
		return "Error searching papers: " + err.Error()
	}
	text := report.Format(res.Entries)
	if footer := report.Footer(len(res.Entries), res.Search.Requested); footer != "" {
		text += "\n\n" + footer
	}
	return text
}

// SubmitIdentifier runs the retrieval action. On success it returns the
// stored path and a confirmation; on failure the path is empty and the
// message describes the failure.
func (t *Tool) SubmitIdentifier(ctx context.Context, identifier string) (path, message string) {
	log := t.log.With("action", uuid.NewString())
	res, err := t.retriever.Retrieve(ctx, identifier)
	if err != nil {
		log.Warn("retrieval failed", "identifier", identifier, "kind", failure.KindOf(err), "err", err)
		return "", Describe(err)
	}
	msg := fmt.Sprintf("Saved %s to %s (%s", res.Identifier, res.Path, humanize.Bytes(uint64(res.Bytes)))
	if res.Pages > 0 {
		msg += fmt.Sprintf(", %d pages", res.Pages)
	}
	return res.Path, msg + ")"
}

// Describe renders a retrieval failure for the user.
func Describe(err error) string {
	switch failure.KindOf(err) {
	case failure.MissingIdentifier:
		return "No DOI provided. Please enter a valid DOI."
	case failure.RetrievalFailed:
		return "Error: Unable to download the paper: " + err.Error()
	case failure.IOFailure:
		return "Error saving paper: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
