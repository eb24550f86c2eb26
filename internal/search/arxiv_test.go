// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Verifiable Fully Homomorphic
      Encryption</title>
    <summary>  We study verifiable FHE.  </summary>
    <published>2023-01-17T18:58:28Z</published>
    <author><name>Alice Smith</name></author>
    <author><name>Bob Jones</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All You Need</title>
    <summary>Transformers.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <arxiv:doi>10.5555/3295222.3295349</arxiv:doi>
    <author><name>Ashish Vaswani</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id</id>
    <title>Error</title>
  </entry>
</feed>`

func TestArxivBackendSearch(t *testing.T) {
	var rawQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		fmt.Fprint(w, sampleArxivFeed)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	b := &ArxivBackend{Client: ts.Client()}
	results, err := b.Search(context.Background(), "homomorphic encryption", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (error entry skipped)", len(results))
	}

	if results[0].Identifier != "10.48550/arXiv.2301.07041" {
		t.Errorf("r0 Identifier = %q, want arXiv DOI", results[0].Identifier)
	}
	if results[0].Year != 2023 || len(results[0].Authors) != 2 {
		t.Errorf("r0 = %+v", results[0])
	}
	if results[1].Identifier != "10.5555/3295222.3295349" {
		t.Errorf("r1 Identifier = %q, want journal DOI", results[1].Identifier)
	}
	if !strings.Contains(rawQuery, "search_query=all:homomorphic+encryption") || !strings.Contains(rawQuery, "max_results=5") {
		t.Errorf("query = %q", rawQuery)
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v3", "hep-th/9901001"},
		{"http://arxiv.org/api/errors#x", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildArxivQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"attention", "all:attention"},
		{"  machine   learning ", "all:machine+learning"},
		{"C++ & rust", "all:C%2B%2B+%26+rust"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := buildArxivQuery(tt.in); got != tt.want {
			t.Errorf("buildArxivQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
