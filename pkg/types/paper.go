// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RetrievalResult describes a document that was downloaded and stored
// locally. Failures are reported as errors, never as a RetrievalResult, so a
// result always carries a path.
type RetrievalResult struct {
	// Identifier is the trimmed identifier the document was requested with.
	Identifier string `json:"identifier" yaml:"identifier"`

	// Path is the local filesystem path of the stored PDF.
	Path string `json:"path" yaml:"path"`

	// SourceURL is the URL the document was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Bytes is the size of the stored file.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	// Pages is the page count reported by the PDF reader, or 0 when the
	// file could not be parsed as a PDF.
	Pages int `json:"pages" yaml:"pages"`
}
