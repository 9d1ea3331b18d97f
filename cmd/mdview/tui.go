package main

import (
	"context"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/browser"
	bt "github.com/fwojciec/mdview/bubbletea"
	"github.com/fwojciec/mdview/goldmark"
	"github.com/fwojciec/mdview/lipgloss"
)

// runTUI opens path in the interactive viewer. Images load in the
// background through a retrying cache and links open in the browser.
func runTUI(ctx context.Context, path string, cfg mdview.Config) error {
	// The viewer owns the terminal.
	logger := slog.New(slog.DiscardHandler)

	sched := bt.NewScheduler()
	images := &mdview.ImageCapability{
		Resolver: &mdview.RetryResolver{
			Resolver: newImageCache(filepath.Dir(path), cfg, logger),
			Policy:   cfg.Retry,
			Logger:   logger,
		},
		Scheduler: sched,
		Context:   ctx,
		Logger:    logger,
	}
	activator := browser.New(browser.WithLogger(logger))
	renderer := mdview.NewRenderer(lipgloss.New(cfg.Theme),
		mdview.WithLogger(logger),
		mdview.WithCapability(mdview.KindImage, images),
		mdview.WithCapability(mdview.KindLink, mdview.LinkCapability{Activator: activator}),
	)

	m := bt.New(bt.Config{
		Title:     filepath.Base(path),
		Load:      loadFile(path),
		Renderer:  renderer,
		Scheduler: sched,
		Activator: activator,
		Theme:     cfg.Theme,
	})
	return bt.Run(ctx, m)
}

// loadFile returns a LoadFunc that parses path each time it is called.
func loadFile(path string) bt.LoadFunc {
	return func(ctx context.Context) iter.Seq2[mdview.Element, error] {
		return func(yield func(mdview.Element, error) bool) {
			f, err := os.Open(path)
			if err != nil {
				yield(nil, err)
				return
			}
			defer f.Close()
			for e, err := range mdview.Parse(ctx, f, goldmark.New()) {
				if !yield(e, err) {
					return
				}
			}
		}
	}
}
