package cache

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/fwojciec/mdview"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 3

// Preloader fetches a document's images ahead of rendering so image
// capabilities find them in the cache.
type Preloader struct {
	Resolver    mdview.ImageResolver
	Concurrency int // Zero means 3
	Logger      *slog.Logger
}

// Preload resolves every url with bounded concurrency and returns how many
// loaded. Individual failures are logged, not returned; the error is
// non-nil only when ctx ends first.
func (p *Preloader) Preload(ctx context.Context, urls []string) (int, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := p.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	var loaded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, url := range urls {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if _, err := p.Resolver.GetImage(gctx, url); err != nil {
				logger.Warn("image preload failed", "url", url, "error", err)
				return nil
			}
			loaded.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(loaded.Load()), ctx.Err()
}

// PreloadElements preloads the images referenced by elems.
func (p *Preloader) PreloadElements(ctx context.Context, elems []mdview.Element) (int, error) {
	return p.Preload(ctx, mdview.ImageSources(elems))
}
