// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/pdiddy/lunar/pkg/types"
)

// markupReplacer strips the Markdown emphasis the converter leaves behind.
var markupReplacer = strings.NewReplacer("**", "", "__", "", "\\_", "_", "\\*", "*")

// cleanAbstract turns a provider abstract into plain single-spaced text.
// Abstracts carrying HTML or JATS markup (common in Crossref-fed providers)
// are converted through html-to-markdown first. An empty result becomes the
// NoAbstract sentinel.
func cleanAbstract(conv *md.Converter, raw string) string {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		if converted, err := conv.ConvertString(text); err == nil {
			text = markupReplacer.Replace(converted)
		}
	}
	text = collapseSpace(text)
	text = strings.TrimPrefix(text, "Abstract ")
	if text == "" {
		return types.NoAbstract
	}
	return text
}
