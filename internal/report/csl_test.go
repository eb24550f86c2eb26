package report

import (
	"bytes"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lunar/pkg/types"
)

func TestToCSLItem(t *testing.T) {
	item := toCSLItem(0, sampleEntries()[0])

	if item.ID != "10.1000/abc" {
		t.Errorf("ID = %q, want %q", item.ID, "10.1000/abc")
	}
	if item.DOI != "10.1000/abc" {
		t.Errorf("DOI = %q, want %q", item.DOI, "10.1000/abc")
	}
	if item.Note != "A short summary." {
		t.Errorf("Note = %q", item.Note)
	}
	if len(item.Author) != 2 || item.Author[1].Family != "Turing" || item.Author[1].Given != "Alan" {
		t.Errorf("Author = %+v", item.Author)
	}
	if item.Issued == nil || item.Issued.DateParts[0][0] != 2021 {
		t.Errorf("Issued year should be 2021")
	}
}

func TestToCSLItemWithoutIdentifier(t *testing.T) {
	item := toCSLItem(1, sampleEntries()[1])

	if item.ID != "item-2" {
		t.Errorf("ID = %q, want %q", item.ID, "item-2")
	}
	if item.DOI != "" {
		t.Errorf("DOI should be empty, got %q", item.DOI)
	}
	if item.Abstract != "" {
		t.Errorf("placeholder abstract should be omitted, got %q", item.Abstract)
	}
	if item.Issued != nil {
		t.Errorf("Issued should be nil without a year")
	}
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		in   string
		want CSLName
	}{
		{"Ada Lovelace", CSLName{Given: "Ada", Family: "Lovelace"}},
		{"J. R. R. Tolkien", CSLName{Given: "J. R. R.", Family: "Tolkien"}},
		{"Aristotle", CSLName{Literal: "Aristotle"}},
		{"  ", CSLName{}},
	}
	for _, tt := range tests {
		if got := parseAuthorName(tt.in); got != tt.want {
			t.Errorf("parseAuthorName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFormatCSL(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatCSL(sampleEntries(), &buf); err != nil {
		t.Fatalf("FormatCSL: %v", err)
	}
	if !strings.Contains(buf.String(), "title: Deep Learning for Clinical Risk") {
		t.Errorf("missing title in output:\n%s", buf.String())
	}

	var items []CSLItem
	if err := yaml.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
}

func TestFormatCSLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatCSL([]types.ReportEntry{}, &buf); err != nil {
		t.Fatalf("FormatCSL: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("got %q, want []", buf.String())
	}
}
