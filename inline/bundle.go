package inline

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoDocument is returned when a bundle contains no HTML file at all.
var ErrNoDocument = errors.New("no HTML document found in bundle")

// Bundle is a read-only file tree, typically an extracted archive. It is
// the source of the primary document and of local asset references.
type Bundle struct {
	fsys fs.FS
}

// NewBundle wraps an existing file tree as a bundle.
func NewBundle(fsys fs.FS) *Bundle {
	return &Bundle{fsys: fsys}
}

// Resolve locates the bundle's primary HTML document and enumerates every
// stylesheet and script file in the tree, stylesheets first, each group in
// deterministic order. Discovery is bundle-wide: a .css or .js file is
// included whether or not the document references it.
func (b *Bundle) Resolve() (*Document, []AssetReference, error) {
	pages, err := doublestar.Glob(b.fsys, "**/*.html")
	if err != nil {
		return nil, nil, fmt.Errorf("scan bundle for documents: %w", err)
	}
	if len(pages) == 0 {
		return nil, nil, ErrNoDocument
	}

	primary := primaryDocument(pages)
	data, err := fs.ReadFile(b.fsys, primary)
	if err != nil {
		return nil, nil, fmt.Errorf("read document %s: %w", primary, err)
	}
	doc, err := ParseDocument(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}

	styles, err := b.discover(KindStylesheet, "**/*.css")
	if err != nil {
		return nil, nil, err
	}
	scripts, err := b.discover(KindScript, "**/*.js")
	if err != nil {
		return nil, nil, err
	}

	return doc, append(styles, scripts...), nil
}

// ReadAssets reads the content of every discovered asset. Local reads have
// no per-asset isolation: any unreadable file fails the whole bundle.
func (b *Bundle) ReadAssets(refs []AssetReference) ([]AssetContent, error) {
	contents := make([]AssetContent, 0, len(refs))
	for _, ref := range refs {
		data, err := fs.ReadFile(b.fsys, ref.Locator)
		if err != nil {
			return nil, fmt.Errorf("read asset %s: %w", ref.Locator, err)
		}
		contents = append(contents, AssetContent{Ref: ref, Body: string(data)})
	}
	return contents, nil
}

func (b *Bundle) discover(kind AssetKind, pattern string) ([]AssetReference, error) {
	paths, err := doublestar.Glob(b.fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan bundle for %s assets: %w", kind, err)
	}
	sort.Strings(paths)
	refs := make([]AssetReference, 0, len(paths))
	for _, p := range paths {
		refs = append(refs, AssetReference{Kind: kind, Locator: p})
	}
	return refs, nil
}

// primaryDocument picks the document to inline into when a bundle carries
// more than one HTML file: the shallowest path wins, ties broken
// lexicographically. The rule is arbitrary but deterministic, so repeated
// runs over the same bundle always pick the same document.
func primaryDocument(paths []string) string {
	sort.Slice(paths, func(i, j int) bool {
		di := strings.Count(paths[i], "/")
		dj := strings.Count(paths[j], "/")
		if di != dj {
			return di < dj
		}
		return paths[i] < paths[j]
	})
	return paths[0]
}
