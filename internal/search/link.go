// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "strings"

// Link bases. Declared as vars so tests can assert against them.
var (
	doiResolverBase   = "https://doi.org/"
	scholarSearchLink = "https://scholar.google.com/scholar?q="
)

// Link returns the canonical link for a paper: the DOI resolver URL when an
// identifier is present, otherwise a Google Scholar search URL built from the
// title with spaces replaced by "+".
func Link(title, identifier string) string {
	if identifier != "" {
		return doiResolverBase + identifier
	}
	return scholarSearchLink + strings.ReplaceAll(title, " ", "+")
}
