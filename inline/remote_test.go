package inline

import (
	"net/url"
	"strings"
	"testing"
)

func mustParseDoc(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := ParseDocument(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	return doc
}

func TestDiscoverReferences(t *testing.T) {
	base, _ := url.Parse("https://example.com/docs/page.html")

	tests := []struct {
		name   string
		markup string
		want   []AssetReference
	}{
		{
			name:   "relative stylesheet",
			markup: `<head><link rel="stylesheet" href="a.css"></head>`,
			want:   []AssetReference{{Kind: KindStylesheet, Locator: "https://example.com/docs/a.css"}},
		},
		{
			name:   "root-relative stylesheet",
			markup: `<head><link rel="stylesheet" href="/shared/a.css"></head>`,
			want:   []AssetReference{{Kind: KindStylesheet, Locator: "https://example.com/shared/a.css"}},
		},
		{
			name:   "absolute script",
			markup: `<body><script src="https://cdn.example.net/lib.js"></script></body>`,
			want:   []AssetReference{{Kind: KindScript, Locator: "https://cdn.example.net/lib.js"}},
		},
		{
			name:   "multi-token rel",
			markup: `<head><link rel="preload stylesheet" href="a.css"></head>`,
			want:   []AssetReference{{Kind: KindStylesheet, Locator: "https://example.com/docs/a.css"}},
		},
		{
			name:   "rel is case-insensitive",
			markup: `<head><link rel="Stylesheet" href="a.css"></head>`,
			want:   []AssetReference{{Kind: KindStylesheet, Locator: "https://example.com/docs/a.css"}},
		},
		{
			name:   "non-stylesheet link skipped",
			markup: `<head><link rel="icon" href="favicon.ico"></head>`,
			want:   nil,
		},
		{
			name:   "link without href skipped",
			markup: `<head><link rel="stylesheet"></head>`,
			want:   nil,
		},
		{
			name:   "inline script skipped",
			markup: `<body><script>var x = 1;</script></body>`,
			want:   nil,
		},
		{
			name: "document order preserved",
			markup: `<head><link rel="stylesheet" href="first.css"></head>` +
				`<body><script src="mid.js"></script><script src="last.js"></script></body>`,
			want: []AssetReference{
				{Kind: KindStylesheet, Locator: "https://example.com/docs/first.css"},
				{Kind: KindScript, Locator: "https://example.com/docs/mid.js"},
				{Kind: KindScript, Locator: "https://example.com/docs/last.js"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParseDoc(t, tt.markup)
			got := discoverReferences(doc, base)

			if len(got) != len(tt.want) {
				t.Fatalf("discoverReferences() returned %d refs, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, w := range tt.want {
				if got[i].Kind != w.Kind || got[i].Locator != w.Locator {
					t.Errorf("refs[%d] = {%s %s}, want {%s %s}",
						i, got[i].Kind, got[i].Locator, w.Kind, w.Locator)
				}
				if got[i].Node == nil {
					t.Errorf("refs[%d].Node = nil, remote refs must carry their reference node", i)
				}
			}
		})
	}
}
