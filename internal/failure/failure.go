// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package failure defines the typed failures produced by the search,
// summarization, and retrieval clients. Every failure is recoverable at the
// boundary of the user action that triggered it.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	Unknown Kind = iota
	MissingIdentifier
	RetrievalFailed
	IOFailure
	SummarizationFailed
	SearchExhausted
	NoResults
)

func (k Kind) String() string {
	switch k {
	case MissingIdentifier:
		return "missing identifier"
	case RetrievalFailed:
		return "retrieval failed"
	case IOFailure:
		return "I/O failure"
	case SummarizationFailed:
		return "summarization failed"
	case SearchExhausted:
		return "search exhausted"
	case NoResults:
		return "no results"
	default:
		return "unknown failure"
	}
}

// Sentinels for errors.Is matching. An *Error matches the sentinel of its Kind.
var (
	ErrMissingIdentifier   = errors.New("no identifier provided")
	ErrRetrievalFailed     = errors.New("document retrieval failed")
	ErrIOFailure           = errors.New("local I/O failure")
	ErrSummarizationFailed = errors.New("summarization failed")
	ErrSearchExhausted     = errors.New("search returned fewer results than requested")
	ErrNoResults           = errors.New("no papers found")
)

var sentinels = map[Kind]error{
	MissingIdentifier:   ErrMissingIdentifier,
	RetrievalFailed:     ErrRetrievalFailed,
	IOFailure:           ErrIOFailure,
	SummarizationFailed: ErrSummarizationFailed,
	SearchExhausted:     ErrSearchExhausted,
	NoResults:           ErrNoResults,
}

// Error is a typed failure. Op names the operation (e.g. "retrieve"),
// Detail carries the provider or local message, StatusCode is set for HTTP
// failures, and Err is the underlying cause if any.
type Error struct {
	Kind       Kind
	Op         string
	Detail     string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// New returns an *Error of the given kind.
func New(kind Kind, op, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// Wrap returns an *Error of the given kind wrapping err.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	for k, s := range sentinels {
		if errors.Is(err, s) {
			return k
		}
	}
	return Unknown
}

// Is reports whether err is a failure of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
