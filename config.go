package mdview

import (
	"fmt"
	"time"
)

// Config holds settings shared by the viewer, the CLI and the image
// pipeline.
type Config struct {
	Theme Theme
	// Width is the render width in cells. Zero means detect from the
	// terminal.
	Width int
	Image ImageConfig
	Retry RetryPolicy
}

// ImageConfig bounds image processing.
type ImageConfig struct {
	MaxWidth   int   // Downscale bound in pixels
	MaxHeight  int   // Downscale bound in pixels
	CacheBytes int64 // In-memory cache bound
	Preload    int   // Concurrent preload fetches
	Timeout    time.Duration
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Theme: DefaultTheme(),
		Image: ImageConfig{
			MaxWidth:   1920,
			MaxHeight:  1080,
			CacheBytes: 100 << 20,
			Preload:    3,
			Timeout:    30 * time.Second,
		},
		Retry: RetryPolicy{
			MaxRetries: 3,
			Delay:      time.Second,
		},
	}
}

// Validate checks that c is usable.
func (c Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("width must be non-negative, got %d: %w", c.Width, ErrValidation)
	}
	if c.Image.MaxWidth <= 0 || c.Image.MaxHeight <= 0 {
		return fmt.Errorf("image bounds must be positive, got %dx%d: %w", c.Image.MaxWidth, c.Image.MaxHeight, ErrValidation)
	}
	if c.Image.CacheBytes <= 0 {
		return fmt.Errorf("image cache size must be positive, got %d: %w", c.Image.CacheBytes, ErrValidation)
	}
	if c.Image.Preload <= 0 {
		return fmt.Errorf("preload concurrency must be positive, got %d: %w", c.Image.Preload, ErrValidation)
	}
	if c.Image.Timeout < 0 {
		return fmt.Errorf("image timeout must be non-negative, got %s: %w", c.Image.Timeout, ErrValidation)
	}
	if err := c.Retry.Validate(); err != nil {
		return err
	}
	for name, idx := range map[string]int{
		"text": c.Theme.Text, "heading": c.Theme.Heading, "link": c.Theme.Link,
		"code": c.Theme.Code, "quote": c.Theme.Quote, "math": c.Theme.Math,
		"muted": c.Theme.Muted, "error": c.Theme.Error, "success": c.Theme.Success,
		"accent": c.Theme.Accent,
	} {
		if idx > 255 {
			return fmt.Errorf("theme color %s must be at most 255, got %d: %w", name, idx, ErrValidation)
		}
	}
	return nil
}
