package inline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// FetchAll fetches every reference concurrently and returns one
// AssetContent per reference, index-aligned with refs. Each fetch runs
// under its own timeout and gets exactly one attempt. Failures are
// isolated: a failed fetch is recorded in its slot and never aborts the
// batch. The call returns only once every fetch has settled.
func FetchAll(ctx context.Context, fetcher *Fetcher, refs []AssetReference, timeout time.Duration, limit int, logger *slog.Logger) []AssetContent {
	results := make([]AssetContent, len(refs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			body, err := fetcher.Fetch(fetchCtx, ref.Locator)
			if err != nil {
				logger.Warn("asset fetch failed",
					"kind", ref.Kind, "url", ref.Locator, "error", err)
				results[i] = AssetContent{Ref: ref, Err: err}
				return nil
			}

			logger.Debug("fetched asset",
				"kind", ref.Kind, "url", ref.Locator, "bytes", len(body))
			results[i] = AssetContent{Ref: ref, Body: body}
			return nil
		})
	}

	// Tasks never return errors; Wait is purely the fan-in point.
	_ = g.Wait()

	return results
}
