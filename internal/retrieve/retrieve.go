// Package retrieve downloads a paper's PDF by identifier from a document
// provider and stores it under the configured output directory.
package retrieve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/lunar/internal/failure"
	"github.com/pdiddy/lunar/pkg/types"
)

// Placeholder is replaced by the identifier in the URL template.
const Placeholder = "{identifier}"

// Retriever fetches PDFs with a single GET per identifier. It keeps no state
// between calls.
type Retriever struct {
	client *http.Client
	cfg    types.RetrieveConfig
	log    *slog.Logger
}

// New returns a Retriever. A nil client uses http.DefaultClient and a nil
// logger discards output.
func New(client *http.Client, cfg types.RetrieveConfig, log *slog.Logger) *Retriever {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.URLTemplate == "" {
		cfg.URLTemplate = types.DefaultURLTemplate
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Retriever{client: client, cfg: cfg, log: log}
}

// OutputDir returns the directory retrieved files are written to.
func (r *Retriever) OutputDir() string { return r.cfg.OutputDir }

// Retrieve downloads the document for identifier and returns where it was
// stored. Re-retrieving an identifier overwrites the earlier file.
func (r *Retriever) Retrieve(ctx context.Context, identifier string) (*types.RetrievalResult, error) {
	identifier = Normalize(identifier)
	if identifier == "" {
		return nil, failure.New(failure.MissingIdentifier, "retrieve", "enter a DOI or other document identifier")
	}

	srcURL := SourceURL(r.cfg.URLTemplate, identifier)
	destPath := filepath.Join(r.cfg.OutputDir, Sanitize(identifier)+".pdf")
	r.log.Debug("retrieving document", "identifier", identifier, "url", srcURL)

	n, err := r.download(ctx, srcURL, destPath)
	if err != nil {
		return nil, err
	}

	result := &types.RetrievalResult{
		Identifier: identifier,
		Path:       destPath,
		SourceURL:  srcURL,
		Bytes:      n,
	}
	pages, err := countPages(destPath)
	if err != nil {
		r.log.Warn("retrieved file is not a readable PDF", "path", destPath, "err", err)
	} else {
		result.Pages = pages
	}
	r.log.Info("retrieved document", "identifier", identifier, "path", destPath, "bytes", n, "pages", result.Pages)
	return result, nil
}

// download fetches url to destPath through a temporary file in the same
// directory, renaming it into place only after the body is fully written.
func (r *Retriever) download(ctx context.Context, url, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &failure.Error{Kind: failure.RetrievalFailed, Op: "retrieve", Detail: "creating request", Err: err}
	}
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, &failure.Error{Kind: failure.RetrievalFailed, Op: "retrieve", Detail: "request to " + url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &failure.Error{
			Kind:       failure.RetrievalFailed,
			Op:         "retrieve",
			StatusCode: resp.StatusCode,
			Detail:     "provider returned " + http.StatusText(resp.StatusCode),
		}
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, &failure.Error{Kind: failure.IOFailure, Op: "retrieve", Detail: "creating directory " + dir, Err: err}
	}

	tmpFile, err := os.CreateTemp(dir, ".retrieve-*.tmp")
	if err != nil {
		return 0, &failure.Error{Kind: failure.IOFailure, Op: "retrieve", Detail: "creating temp file", Err: err}
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		if ctx.Err() != nil {
			return 0, &failure.Error{Kind: failure.RetrievalFailed, Op: "retrieve", Detail: "download interrupted", Err: copyErr}
		}
		return 0, &failure.Error{Kind: failure.IOFailure, Op: "retrieve", Detail: "writing download", Err: copyErr}
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, &failure.Error{Kind: failure.IOFailure, Op: "retrieve", Detail: "closing temp file", Err: closeErr}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, &failure.Error{Kind: failure.IOFailure, Op: "retrieve", Detail: "renaming temp file", Err: err}
	}
	return n, nil
}

// doiPrefixes are stripped from user input so that a pasted resolver link
// and a bare DOI name the same file.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// Normalize trims identifier and removes a leading DOI resolver URL or
// "doi:" prefix. Other identifiers are returned trimmed.
func Normalize(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	lower := strings.ToLower(identifier)
	for _, p := range doiPrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.TrimSpace(identifier[len(p):])
		}
	}
	return identifier
}

// SourceURL substitutes identifier into template. Each "/"-separated segment
// of the identifier is path-escaped so characters such as "#" and "?" reach
// the provider. A template without the placeholder has the identifier
// appended as a final path segment.
func SourceURL(template, identifier string) string {
	escaped := escapeIdentifier(identifier)
	if strings.Contains(template, Placeholder) {
		return strings.ReplaceAll(template, Placeholder, escaped)
	}
	return strings.TrimRight(template, "/") + "/" + escaped
}

func escapeIdentifier(identifier string) string {
	segments := strings.Split(identifier, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// Sanitize makes identifier safe to use as a file name stem. Path
// separators become underscores.
func Sanitize(identifier string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(strings.TrimSpace(identifier))
}

// countPages opens path as a PDF and returns its page count. The parser
// panics on some malformed input, so panics are reported as errors.
func countPages(path string) (pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parsing pdf: %v", rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.NumPage(), nil
}
