package inline

import "golang.org/x/net/html"

// AssetKind distinguishes the two inlinable asset classes.
type AssetKind string

const (
	// KindStylesheet marks CSS content, inlined as a <style> element.
	KindStylesheet AssetKind = "stylesheet"
	// KindScript marks JavaScript content, inlined as a <script> element.
	KindScript AssetKind = "script"
)

// AssetReference identifies one external resource to inline.
type AssetReference struct {
	// Kind selects the inline element the content becomes.
	Kind AssetKind

	// Locator is a path within a bundle's file tree, or an absolute URL
	// for remote-discovered assets.
	Locator string

	// Node is the reference node (<link> or <script src>) this asset was
	// discovered on, owned by the Document it was found in. It is nil for
	// bundle-discovered assets, which are not tied to any existing node.
	Node *html.Node
}

// AssetContent pairs a reference with its fetched or read content.
// Exactly one of Body and Err is meaningful.
type AssetContent struct {
	Ref  AssetReference
	Body string
	Err  error
}

// Failed reports whether the asset's content could not be retrieved.
func (c AssetContent) Failed() bool {
	return c.Err != nil
}
