// Package cache provides an in-memory image resolver and a preloader that
// warms it.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/draw"
	"golang.org/x/sync/singleflight"
)

const defaultMaxBytes = 100 << 20

// Fetcher retrieves the raw bytes at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

var (
	_ mdview.ImageResolver = (*Memory)(nil)
	_ mdview.Peeker        = (*Memory)(nil)
)

// Memory is an ImageResolver that keeps fetched images in memory. Its
// total size is bounded: storing an image that would exceed the bound
// clears the cache first. Returned slices are shared and must not be
// modified.
type Memory struct {
	fetcher  Fetcher
	maxBytes int64
	maxW     int
	maxH     int
	timeout  time.Duration
	logger   *slog.Logger
	inflight singleflight.Group
	mu       sync.Mutex
	entries  map[string][]byte
	size     int64
}

// Option configures a [Memory].
type Option func(*Memory)

// WithMaxBytes bounds the total size of cached images.
func WithMaxBytes(n int64) Option {
	return func(m *Memory) { m.maxBytes = n }
}

// WithDownscale scales fetched images down to fit maxW×maxH before they are
// cached.
func WithDownscale(maxW, maxH int) Option {
	return func(m *Memory) { m.maxW, m.maxH = maxW, maxH }
}

// WithTimeout bounds each fetch.
func WithTimeout(d time.Duration) Option {
	return func(m *Memory) { m.timeout = d }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Memory) { m.logger = l }
}

// New creates a [Memory] fetching through f.
func New(f Fetcher, opts ...Option) *Memory {
	m := &Memory{
		fetcher:  f,
		maxBytes: defaultMaxBytes,
		entries:  make(map[string][]byte),
	}
	for _, o := range opts {
		o(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// GetImage returns the cached bytes for url, fetching and caching them on a
// miss. Concurrent misses for the same url share one fetch.
func (m *Memory) GetImage(ctx context.Context, url string) ([]byte, error) {
	if data, ok := m.Peek(url); ok {
		return data, nil
	}
	v, err, shared := m.inflight.Do(url, func() (any, error) {
		return m.fetch(ctx, url)
	})
	if err != nil {
		return nil, &mdview.ImageLoadError{URL: url, Err: err}
	}
	if shared {
		m.logger.Debug("image fetch shared", "url", url)
	}
	return v.([]byte), nil
}

func (m *Memory) fetch(ctx context.Context, url string) ([]byte, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	start := time.Now()
	data, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if m.maxW > 0 && m.maxH > 0 {
		scaled, err := draw.Downscale(data, m.maxW, m.maxH)
		if err != nil {
			m.logger.Warn("image not downscaled", "url", url, "error", err)
		} else {
			data = scaled
		}
	}
	if err := m.CacheImage(ctx, url, data); err != nil {
		return nil, err
	}
	m.logger.Debug("image fetched", "url", url, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}

// CacheImage stores data for url. Data larger than the whole bound is not
// cached.
func (m *Memory) CacheImage(ctx context.Context, url string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cache %s: %w", url, err)
	}
	n := int64(len(data))
	if n > m.maxBytes {
		m.logger.Debug("image too large to cache", "url", url, "bytes", n, "max", m.maxBytes)
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[url]; ok {
		m.size -= int64(len(old))
		delete(m.entries, url)
	}
	if m.size+n > m.maxBytes {
		m.logger.Debug("image cache full, clearing", "entries", len(m.entries), "bytes", m.size)
		clear(m.entries)
		m.size = 0
	}
	m.entries[url] = data
	m.size += n
	return nil
}

// Peek returns the cached bytes for url without fetching.
func (m *Memory) Peek(url string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[url]
	return data, ok
}

// Len returns the number of cached images.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Size returns the total size of cached images in bytes.
func (m *Memory) Size() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// Clear empties the cache.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	m.size = 0
}
