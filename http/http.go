// Package http fetches image bytes over HTTP(S) and from the local
// filesystem.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/mdview"
)

const defaultMaxBytes = 50 << 20

// Client fetches resources referenced by a document. Absolute http and
// https URLs are requested over the network; file URLs and bare paths are
// read from disk, relative to the base directory.
type Client struct {
	httpClient *http.Client
	maxBytes   int64
	baseDir    string
	userAgent  string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxBytes bounds the size of a fetched resource.
func WithMaxBytes(n int64) Option {
	return func(c *Client) { c.maxBytes = n }
}

// WithBaseDir sets the directory relative paths are resolved against,
// usually the directory of the document.
func WithBaseDir(dir string) Option {
	return func(c *Client) { c.baseDir = dir }
}

// WithUserAgent sets the User-Agent header of network requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a [Client].
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		maxBytes:   defaultMaxBytes,
		userAgent:  "mdview",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch returns the bytes at rawURL. Bodies larger than the client's bound
// fail with [mdview.ErrTooLarge].
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("http: parse %q: %w", rawURL, err)
	}
	switch u.Scheme {
	case "http", "https":
		return c.get(ctx, u.String())
	case "file":
		return c.readFile(u.Path)
	case "":
		return c.readFile(rawURL)
	default:
		return nil, fmt.Errorf("http: unsupported scheme %q: %w", u.Scheme, mdview.ErrValidation)
	}
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http: GET %s: HTTP %d", u, resp.StatusCode)
	}
	if resp.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("http: GET %s: %d bytes: %w", u, resp.ContentLength, mdview.ErrTooLarge)
	}
	return c.readAll(resp.Body, u)
}

func (c *Client) readFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) && c.baseDir != "" {
		path = filepath.Join(c.baseDir, filepath.FromSlash(strings.TrimPrefix(path, "./")))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer f.Close()
	return c.readAll(f, path)
}

// readAll reads at most maxBytes from r, failing when more is available.
func (c *Client) readAll(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("http: read %s: %w", name, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("http: %s exceeds %d bytes: %w", name, c.maxBytes, mdview.ErrTooLarge)
	}
	return data, nil
}
