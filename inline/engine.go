package inline

import "log/slog"

// Engine applies fetched asset content to a document tree. Mutation is
// strictly sequential and happens only after all fetches have settled;
// the engine is never invoked from concurrent fetch tasks.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an inlining engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Apply mutates doc with each successful asset, in the order the assets
// were discovered — no reordering, no deduplication. An asset bound to a
// reference node replaces that node in place; an unbound asset is
// appended, styles to head and scripts to body. Failed assets leave
// their reference node untouched. Returns the number of assets inlined
// and the number skipped.
func (e *Engine) Apply(doc *Document, contents []AssetContent) (inlined, skipped int) {
	for _, c := range contents {
		if c.Failed() {
			skipped++
			continue
		}

		node := newInlineNode(c.Ref.Kind, c.Body)
		switch {
		case c.Ref.Node != nil:
			replaceNode(c.Ref.Node, node)
		case c.Ref.Kind == KindStylesheet:
			doc.Head().AppendChild(node)
		default:
			doc.Body().AppendChild(node)
		}

		e.logger.Debug("inlined asset", "kind", c.Ref.Kind, "locator", c.Ref.Locator)
		inlined++
	}
	return inlined, skipped
}
