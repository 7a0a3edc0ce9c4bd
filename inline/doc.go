// Package inline implements the asset-resolution and inlining engine that
// turns a multi-file web document into a single self-contained HTML file.
//
// # Overview
//
// Two pipelines share one output contract:
//
//   - Bundle: given an extracted archive's file tree, locate the primary
//     HTML document and inline every stylesheet and script file found
//     anywhere in the tree.
//   - Remote: given a live URL, fetch the document, discover its
//     <link rel=stylesheet> and <script src> references, fetch each one
//     concurrently, and replace the reference nodes with inline content.
//
// # Components
//
//   - Bundle: file-tree resolution and local asset reads
//   - RemoteResolver: document fetch and reference discovery
//   - Fetcher: HTTP client with timeout, size cap, and SSRF guard
//   - FetchAll: bounded fan-out/fan-in asset fetching
//   - Engine: sequential tree mutation after fan-in
//   - Combiner: pipeline orchestration and serialization
//
// # Failure model
//
// Bundle resolution is all-or-nothing: a missing document or an unreadable
// local file fails the whole request. Remote asset fetches are isolated:
// a failed asset leaves its reference node untouched and never aborts the
// batch; only the primary document fetch is fatal.
package inline
