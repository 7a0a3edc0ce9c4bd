package inline

import (
	"context"
	"io/fs"
	"log/slog"
	"time"
)

// Defaults applied by NewCombiner when the corresponding option is zero.
const (
	DefaultFetchTimeout  = 10 * time.Second
	DefaultUserAgent     = "pagefuse/1.0"
	DefaultMaxAssetSize  = 10 << 20 // 10 MB
	DefaultMaxConcurrent = 16
)

// Options configures a Combiner.
type Options struct {
	// FetchTimeout bounds the primary document fetch and each asset fetch.
	FetchTimeout time.Duration

	// UserAgent is sent on every outbound request.
	UserAgent string

	// MaxAssetSize caps each fetched body in bytes.
	MaxAssetSize int64

	// MaxConcurrent bounds the asset fetch fan-out per document.
	MaxConcurrent int

	// BlockPrivateHosts refuses fetches and redirects that target
	// localhost, private IPs, or local domains.
	BlockPrivateHosts bool

	Logger *slog.Logger
}

// Result is the outcome of one combine operation.
type Result struct {
	// HTML is the serialized self-contained document.
	HTML []byte

	// Inlined counts the assets embedded into the document.
	Inlined int

	// Skipped counts remote assets whose fetch failed and whose reference
	// nodes were therefore left untouched.
	Skipped int
}

// Combiner runs the two inlining pipelines. One Combiner serves many
// requests; all per-request state lives in the arguments.
type Combiner struct {
	fetcher       *Fetcher
	resolver      *RemoteResolver
	engine        *Engine
	logger        *slog.Logger
	fetchTimeout  time.Duration
	maxConcurrent int
}

// NewCombiner creates a combiner, applying defaults for zero options.
func NewCombiner(opts Options) *Combiner {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxAssetSize <= 0 {
		opts.MaxAssetSize = DefaultMaxAssetSize
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	fetcher := NewFetcher(opts.FetchTimeout, opts.UserAgent, opts.MaxAssetSize, opts.BlockPrivateHosts)
	return &Combiner{
		fetcher:       fetcher,
		resolver:      NewRemoteResolver(fetcher),
		engine:        NewEngine(opts.Logger),
		logger:        opts.Logger,
		fetchTimeout:  opts.FetchTimeout,
		maxConcurrent: opts.MaxConcurrent,
	}
}

// CombineBundle inlines every stylesheet and script file found in fsys
// into the bundle's primary document. All local reads must succeed;
// there is no per-asset isolation in this pipeline.
func (c *Combiner) CombineBundle(fsys fs.FS) (*Result, error) {
	bundle := NewBundle(fsys)

	doc, refs, err := bundle.Resolve()
	if err != nil {
		return nil, err
	}

	contents, err := bundle.ReadAssets(refs)
	if err != nil {
		return nil, err
	}

	inlined, skipped := c.engine.Apply(doc, contents)

	out, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	c.logger.Info("combined bundle document", "inlined", inlined, "skipped", skipped)
	return &Result{HTML: out, Inlined: inlined, Skipped: skipped}, nil
}

// CombineURL fetches the document at rawURL, fetches every stylesheet and
// script it references concurrently, and inlines the ones that succeed,
// each replacing its reference node in place. Failed assets leave their
// reference node untouched; only the primary document fetch is fatal.
func (c *Combiner) CombineURL(ctx context.Context, rawURL string) (*Result, error) {
	doc, refs, err := c.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	contents := FetchAll(ctx, c.fetcher, refs, c.fetchTimeout, c.maxConcurrent, c.logger)
	inlined, skipped := c.engine.Apply(doc, contents)

	out, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	c.logger.Info("combined remote document",
		"url", rawURL, "references", len(refs), "inlined", inlined, "skipped", skipped)
	return &Result{HTML: out, Inlined: inlined, Skipped: skipped}, nil
}
