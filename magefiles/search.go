//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds lunar and runs a search for query, e.g.
// mage search "machine learning for health".
func Search(query string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "search", query)
}

// Fetch builds lunar and downloads the paper with the given DOI.
func Fetch(identifier string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "fetch", identifier)
}
