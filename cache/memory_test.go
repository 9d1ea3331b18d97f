package cache_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher serves fixed bodies and counts fetches per URL.
type countingFetcher struct {
	mu     sync.Mutex
	bodies map[string][]byte
	calls  map[string]int
}

func newFetcher(bodies map[string][]byte) *countingFetcher {
	return &countingFetcher{bodies: bodies, calls: make(map[string]int)}
}

func (f *countingFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	data, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (f *countingFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func TestMemory_GetImage(t *testing.T) {
	t.Parallel()

	t.Run("fetches once and serves from cache", func(t *testing.T) {
		t.Parallel()
		f := newFetcher(map[string][]byte{"a": []byte("aaa")})
		m := cache.New(f)

		for range 3 {
			data, err := m.GetImage(context.Background(), "a")
			require.NoError(t, err)
			assert.Equal(t, "aaa", string(data))
		}
		assert.Equal(t, 1, f.count("a"))
		assert.Equal(t, 1, m.Len())
		assert.Equal(t, int64(3), m.Size())
	})

	t.Run("failures are image load errors and are not cached", func(t *testing.T) {
		t.Parallel()
		f := newFetcher(nil)
		m := cache.New(f)

		_, err := m.GetImage(context.Background(), "missing")
		var loadErr *mdview.ImageLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "missing", loadErr.URL)

		_, err = m.GetImage(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, 2, f.count("missing"))
		assert.Equal(t, 0, m.Len())
	})

	t.Run("concurrent misses share a fetch", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		var calls atomic.Int32
		m := cache.New(cache.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
			calls.Add(1)
			<-release
			return []byte("x"), nil
		}))

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := m.GetImage(context.Background(), "u")
				assert.NoError(t, err)
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()
		assert.LessOrEqual(t, calls.Load(), int32(5))
		assert.Equal(t, 1, m.Len())
	})

	t.Run("timeout bounds the fetch", func(t *testing.T) {
		t.Parallel()
		m := cache.New(cache.FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}), cache.WithTimeout(10*time.Millisecond))

		_, err := m.GetImage(context.Background(), "slow")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("downscales before caching", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))))
		f := newFetcher(map[string][]byte{"big.png": buf.Bytes()})
		m := cache.New(f, cache.WithDownscale(10, 10))

		data, err := m.GetImage(context.Background(), "big.png")
		require.NoError(t, err)
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Width)
		assert.Equal(t, 5, cfg.Height)
	})

	t.Run("non-image data is kept when downscaling fails", func(t *testing.T) {
		t.Parallel()
		f := newFetcher(map[string][]byte{"a.svg": []byte("<svg/>")})
		m := cache.New(f, cache.WithDownscale(10, 10))

		data, err := m.GetImage(context.Background(), "a.svg")
		require.NoError(t, err)
		assert.Equal(t, "<svg/>", string(data))
	})
}

func TestMemory_CacheImage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("overflow clears the cache first", func(t *testing.T) {
		t.Parallel()
		m := cache.New(newFetcher(nil), cache.WithMaxBytes(10))
		require.NoError(t, m.CacheImage(ctx, "a", []byte(strings.Repeat("a", 4))))
		require.NoError(t, m.CacheImage(ctx, "b", []byte(strings.Repeat("b", 4))))
		assert.Equal(t, int64(8), m.Size())

		require.NoError(t, m.CacheImage(ctx, "c", []byte(strings.Repeat("c", 4))))
		assert.Equal(t, 1, m.Len())
		assert.Equal(t, int64(4), m.Size())
		_, ok := m.Peek("a")
		assert.False(t, ok)
		_, ok = m.Peek("c")
		assert.True(t, ok)
	})

	t.Run("data larger than the bound is skipped", func(t *testing.T) {
		t.Parallel()
		m := cache.New(newFetcher(nil), cache.WithMaxBytes(4))
		require.NoError(t, m.CacheImage(ctx, "a", []byte("aa")))
		require.NoError(t, m.CacheImage(ctx, "huge", []byte("hugehuge")))
		assert.Equal(t, 1, m.Len())
		_, ok := m.Peek("huge")
		assert.False(t, ok)
	})

	t.Run("replacing an entry adjusts the size", func(t *testing.T) {
		t.Parallel()
		m := cache.New(newFetcher(nil), cache.WithMaxBytes(10))
		require.NoError(t, m.CacheImage(ctx, "a", []byte("123456")))
		require.NoError(t, m.CacheImage(ctx, "a", []byte("12")))
		assert.Equal(t, 1, m.Len())
		assert.Equal(t, int64(2), m.Size())
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		m := cache.New(newFetcher(nil))
		assert.ErrorIs(t, m.CacheImage(cctx, "a", []byte("a")), context.Canceled)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()
		m := cache.New(newFetcher(nil))
		require.NoError(t, m.CacheImage(ctx, "a", []byte("a")))
		m.Clear()
		assert.Equal(t, 0, m.Len())
		assert.Equal(t, int64(0), m.Size())
	})
}
