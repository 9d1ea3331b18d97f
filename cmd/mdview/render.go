package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/cache"
	"github.com/fwojciec/mdview/http"
	"github.com/fwojciec/mdview/json"
	"github.com/fwojciec/mdview/lipgloss"
)

// streamDocument renders one Markdown input block by block as it is parsed.
func streamDocument(ctx context.Context, w io.Writer, in input, stdin io.Reader, cfg mdview.Config, logger *slog.Logger) error {
	r := newRenderer(cfg, logger)
	first := true
	var werr error
	err := parseInput(ctx, in, stdin, logger, func(e mdview.Element) {
		h := r.RenderElement(e)
		if werr != nil || h == nil {
			return
		}
		if !first {
			_, werr = io.WriteString(w, "\n")
		}
		first = false
		if werr == nil {
			_, werr = fmt.Fprintln(w, lipgloss.View(h, cfg.Width))
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", in.name(), err)
	}
	return werr
}

// renderStatic renders parsed documents one after another. With more than
// one document each gets a name header. With images enabled, image sources
// are fetched into a cache before rendering.
func renderStatic(ctx context.Context, w io.Writer, docs []document, cfg mdview.Config, images bool, logger *slog.Logger) error {
	header := color.New(color.Bold, color.Underline)
	for i, doc := range docs {
		var opts []mdview.RendererOption
		var preloaded *preloadedResolver
		if images {
			c, err := preloadImages(ctx, doc, cfg, logger)
			if err != nil {
				return err
			}
			preloaded = newPreloadedResolver(c)
			opts = append(opts, mdview.WithCapability(mdview.KindImage, &mdview.ImageCapability{
				Resolver:  preloaded,
				Scheduler: preloaded,
				Context:   ctx,
			}))
		}
		r := newRenderer(cfg, logger, opts...)

		if i > 0 {
			fmt.Fprintln(w)
		}
		if len(docs) > 1 {
			fmt.Fprintln(w, header.Sprint(doc.input.name()))
			fmt.Fprintln(w)
		}
		handles := make([]mdview.Handle, 0, len(doc.elements))
		for _, e := range doc.elements {
			handles = append(handles, r.RenderElement(e))
		}
		if preloaded != nil {
			preloaded.settle()
		}
		if out := lipgloss.Join(handles, cfg.Width); out != "" {
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// preloadImages fetches every image in doc into a fresh cache. Relative
// sources resolve against the document's directory.
func preloadImages(ctx context.Context, doc document, cfg mdview.Config, logger *slog.Logger) (*cache.Memory, error) {
	c := newImageCache(doc.input.baseDir(), cfg, logger)
	p := &cache.Preloader{Resolver: c, Concurrency: cfg.Image.Preload, Logger: logger}
	start := time.Now()
	n, err := p.PreloadElements(ctx, doc.elements)
	if err != nil {
		return nil, err
	}
	logger.Debug("images preloaded", "input", doc.input.name(), "count", n, "elapsed", time.Since(start))
	return c, nil
}

var errNotPreloaded = errors.New("not preloaded")

var (
	_ mdview.ImageResolver = (*preloadedResolver)(nil)
	_ mdview.Peeker        = (*preloadedResolver)(nil)
	_ mdview.Scheduler     = (*preloadedResolver)(nil)
)

// preloadedResolver serves images from a warmed cache without fetching.
// Misses fail, and their updates are held until settle so that every image
// has its final state before output is written.
type preloadedResolver struct {
	cache  *cache.Memory
	misses int
	posts  chan func()
}

func newPreloadedResolver(c *cache.Memory) *preloadedResolver {
	return &preloadedResolver{cache: c, posts: make(chan func())}
}

// Peek is called on the render goroutine before any fetch starts, so a miss
// here means exactly one update will be posted.
func (p *preloadedResolver) Peek(url string) ([]byte, bool) {
	data, ok := p.cache.Peek(url)
	if !ok {
		p.misses++
	}
	return data, ok
}

func (p *preloadedResolver) GetImage(_ context.Context, url string) ([]byte, error) {
	return nil, &mdview.ImageLoadError{URL: url, Err: errNotPreloaded}
}

func (p *preloadedResolver) CacheImage(ctx context.Context, url string, data []byte) error {
	return p.cache.CacheImage(ctx, url, data)
}

func (p *preloadedResolver) Post(fn func()) { p.posts <- fn }

// settle runs the updates for every miss seen so far.
func (p *preloadedResolver) settle() {
	for range p.misses {
		(<-p.posts)()
	}
	p.misses = 0
}

func newImageCache(baseDir string, cfg mdview.Config, logger *slog.Logger) *cache.Memory {
	abs, err := filepath.Abs(baseDir)
	if err == nil {
		baseDir = abs
	}
	client := http.New(http.WithBaseDir(baseDir))
	return cache.New(client,
		cache.WithMaxBytes(cfg.Image.CacheBytes),
		cache.WithDownscale(cfg.Image.MaxWidth, cfg.Image.MaxHeight),
		cache.WithTimeout(cfg.Image.Timeout),
		cache.WithLogger(logger),
	)
}

func newRenderer(cfg mdview.Config, logger *slog.Logger, opts ...mdview.RendererOption) *mdview.Renderer {
	opts = append([]mdview.RendererOption{mdview.WithLogger(logger)}, opts...)
	return mdview.NewRenderer(lipgloss.New(cfg.Theme), opts...)
}

// writeJSON writes each document as a JSON element tree, one per line.
func writeJSON(w io.Writer, docs []document) error {
	now := time.Now().UTC()
	for _, doc := range docs {
		data, err := json.Marshal(json.Tree{
			Source:   doc.input.name(),
			SavedAt:  now,
			Elements: doc.elements,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", doc.input.name(), err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
