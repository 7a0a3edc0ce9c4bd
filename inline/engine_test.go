package inline

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestEngineAppliesBundleAssets(t *testing.T) {
	doc := mustParseDoc(t, "<html><head><title>t</title></head><body><p>hi</p></body></html>")

	contents := []AssetContent{
		{Ref: AssetReference{Kind: KindStylesheet, Locator: "a.css"}, Body: "body{color:red}"},
		{Ref: AssetReference{Kind: KindScript, Locator: "a.js"}, Body: "run()"},
	}

	inlined, skipped := NewEngine(discardLogger()).Apply(doc, contents)
	if inlined != 2 || skipped != 0 {
		t.Fatalf("Apply() = (%d, %d), want (2, 0)", inlined, skipped)
	}

	out := renderString(t, doc)
	if !strings.Contains(out, "<title>t</title><style>body{color:red}</style></head>") {
		t.Errorf("style not appended as last child of head:\n%s", out)
	}
	if !strings.Contains(out, "<p>hi</p><script>run()</script></body>") {
		t.Errorf("script not appended as last child of body:\n%s", out)
	}
}

func TestEngineAppendsInDiscoveryOrderWithDuplicates(t *testing.T) {
	doc := mustParseDoc(t, "<html><head></head><body></body></html>")

	contents := []AssetContent{
		{Ref: AssetReference{Kind: KindStylesheet, Locator: "one.css"}, Body: ".one{}"},
		{Ref: AssetReference{Kind: KindStylesheet, Locator: "two.css"}, Body: ".two{}"},
		{Ref: AssetReference{Kind: KindStylesheet, Locator: "one.css"}, Body: ".one{}"},
	}

	inlined, _ := NewEngine(discardLogger()).Apply(doc, contents)
	if inlined != 3 {
		t.Fatalf("Apply() inlined = %d, want 3 (duplicates are not deduplicated)", inlined)
	}

	out := renderString(t, doc)
	want := "<style>.one{}</style><style>.two{}</style><style>.one{}</style>"
	if !strings.Contains(out, want) {
		t.Errorf("styles not in discovery order:\n%s", out)
	}
}

func TestEngineReplacesReferenceNodeInPlace(t *testing.T) {
	doc := mustParseDoc(t,
		`<html><head><meta charset="utf-8"><link rel="stylesheet" href="a.css"><title>t</title></head><body></body></html>`)

	refs := discoverReferences(doc, mustURL(t, "https://example.com/"))
	if len(refs) != 1 {
		t.Fatalf("discovered %d refs, want 1", len(refs))
	}

	contents := []AssetContent{{Ref: refs[0], Body: "body{color:red}"}}
	inlined, skipped := NewEngine(discardLogger()).Apply(doc, contents)
	if inlined != 1 || skipped != 0 {
		t.Fatalf("Apply() = (%d, %d), want (1, 0)", inlined, skipped)
	}

	out := renderString(t, doc)
	// The inline node takes the link's position between meta and title.
	if !strings.Contains(out, `<meta charset="utf-8"/><style>body{color:red}</style><title>t</title>`) {
		t.Errorf("style did not take the link's position:\n%s", out)
	}
	if strings.Contains(out, "<link") {
		t.Errorf("reference node still present:\n%s", out)
	}
}

func TestEngineLeavesFailedAssetsUntouched(t *testing.T) {
	doc := mustParseDoc(t,
		`<html><head><link rel="stylesheet" href="a.css"><link rel="stylesheet" href="b.css"></head><body></body></html>`)

	refs := discoverReferences(doc, mustURL(t, "https://example.com/"))
	if len(refs) != 2 {
		t.Fatalf("discovered %d refs, want 2", len(refs))
	}

	contents := []AssetContent{
		{Ref: refs[0], Err: errors.New("timeout")},
		{Ref: refs[1], Body: ".b{}"},
	}

	inlined, skipped := NewEngine(discardLogger()).Apply(doc, contents)
	if inlined != 1 || skipped != 1 {
		t.Fatalf("Apply() = (%d, %d), want (1, 1)", inlined, skipped)
	}

	out := renderString(t, doc)
	if !strings.Contains(out, `<link rel="stylesheet" href="a.css"/>`) {
		t.Errorf("failed asset's reference node was not left untouched:\n%s", out)
	}
	if !strings.Contains(out, "<style>.b{}</style>") {
		t.Errorf("successful asset not inlined:\n%s", out)
	}
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	return u
}

func renderString(t *testing.T, doc *Document) string {
	t.Helper()
	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	return string(out)
}
