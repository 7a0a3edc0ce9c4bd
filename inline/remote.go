package inline

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RemoteResolver fetches a live page and enumerates the external
// stylesheet and script references it carries.
type RemoteResolver struct {
	fetcher *Fetcher
}

// NewRemoteResolver creates a resolver backed by the given fetcher.
func NewRemoteResolver(fetcher *Fetcher) *RemoteResolver {
	return &RemoteResolver{fetcher: fetcher}
}

// Resolve fetches and parses the document at rawURL and returns it
// together with the asset references discovered in it, in document order.
// Each locator is resolved to an absolute URL against rawURL itself;
// <base> tags are ignored. A failed or non-2xx document fetch is fatal.
func (r *RemoteResolver) Resolve(ctx context.Context, rawURL string) (*Document, []AssetReference, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	body, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch document: %w", err)
	}

	doc, err := ParseDocument(strings.NewReader(body))
	if err != nil {
		return nil, nil, err
	}

	return doc, discoverReferences(doc, base), nil
}

// discoverReferences walks the tree in document order collecting
// stylesheet links and external scripts. Inline <script> elements and
// <link> elements without a stylesheet rel are skipped.
func discoverReferences(doc *Document, base *url.URL) []AssetReference {
	var refs []AssetReference
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Link:
				if href, ok := stylesheetHref(n); ok {
					if abs := resolveLocator(base, href); abs != "" {
						refs = append(refs, AssetReference{Kind: KindStylesheet, Locator: abs, Node: n})
					}
				}
			case atom.Script:
				if src := attrVal(n, "src"); src != "" {
					if abs := resolveLocator(base, src); abs != "" {
						refs = append(refs, AssetReference{Kind: KindScript, Locator: abs, Node: n})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc.root)
	return refs
}

// stylesheetHref returns the href of a <link> whose rel attribute
// contains the stylesheet token.
func stylesheetHref(n *html.Node) (string, bool) {
	href := attrVal(n, "href")
	if href == "" {
		return "", false
	}
	for _, rel := range strings.Fields(attrVal(n, "rel")) {
		if strings.EqualFold(rel, "stylesheet") {
			return href, true
		}
	}
	return "", false
}

// resolveLocator resolves raw against base, returning "" for locators
// that do not parse as URL references.
func resolveLocator(base *url.URL, raw string) string {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
