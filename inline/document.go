package inline

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML document. The tree is mutated in place by the
// inlining engine and serialized back out once inlining is complete.
type Document struct {
	root *html.Node
}

// ParseDocument parses HTML from r. Parsing is best-effort: malformed
// markup yields whatever structure the parser recovers rather than an
// error, and the parser always synthesizes the html/head/body skeleton.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// Render serializes the document tree as HTML to w.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

// Bytes serializes the document tree and returns the result.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Head returns the document's head element.
func (d *Document) Head() *html.Node {
	return d.findElement(atom.Head)
}

// Body returns the document's body element.
func (d *Document) Body() *html.Node {
	return d.findElement(atom.Body)
}

func (d *Document) findElement(a atom.Atom) *html.Node {
	var result *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if result != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			result = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(d.root)
	return result
}

// newInlineNode builds a <style> or <script> element whose sole child is
// a text node carrying the asset content verbatim. Both are raw text
// elements, so the serializer writes the content unescaped.
func newInlineNode(kind AssetKind, content string) *html.Node {
	a := atom.Style
	if kind == KindScript {
		a = atom.Script
	}
	elem := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	elem.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: content,
	})
	return elem
}

// replaceNode swaps repl into old's position in the tree. A detached old
// node is left alone.
func replaceNode(old, repl *html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	parent.InsertBefore(repl, old)
	parent.RemoveChild(old)
}

// attrVal returns the value of the named attribute, or "" when absent.
func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
