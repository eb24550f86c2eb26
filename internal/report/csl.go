package report

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lunar/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form,
// consumable by Pandoc and reference managers. The summary is carried in
// the note field.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Note     string    `yaml:"note,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	DOI      string    `yaml:"DOI,omitempty"`
	URL      string    `yaml:"URL,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes entries as a CSL-YAML list to w.
func FormatCSL(entries []types.ReportEntry, w io.Writer) error {
	items := make([]CSLItem, len(entries))
	for i, e := range entries {
		items[i] = toCSLItem(i, e)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(i int, e types.ReportEntry) CSLItem {
	c := e.Candidate
	item := CSLItem{
		ID:    cslID(i, c),
		Type:  "article-journal",
		Title: c.Title,
		URL:   c.Link,
		Note:  e.Summary,
	}
	if c.Abstract != types.NoAbstract {
		item.Abstract = c.Abstract
	}
	for _, a := range c.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if c.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{c.Year}}}
	}
	if strings.HasPrefix(c.Identifier, "10.") {
		item.DOI = c.Identifier
	}
	return item
}

// cslID prefers the identifier and falls back to a positional key.
func cslID(i int, c types.Candidate) string {
	if c.HasIdentifier() {
		return c.Identifier
	}
	return "item-" + strconv.Itoa(i+1)
}

// parseAuthorName splits a full name on its last space: everything before is
// given, the last token is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
