// Package toml loads mdview configuration files. Keys present in the file
// override DefaultConfig; absent keys keep their defaults.
package toml

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/mdview"
)

type fileConfig struct {
	Width int        `toml:"width"`
	Theme themeTable `toml:"theme"`
	Image imageTable `toml:"image"`
	Retry retryTable `toml:"retry"`
}

type themeTable struct {
	Text    int `toml:"text"`
	Heading int `toml:"heading"`
	Link    int `toml:"link"`
	Code    int `toml:"code"`
	Quote   int `toml:"quote"`
	Math    int `toml:"math"`
	Muted   int `toml:"muted"`
	Error   int `toml:"error"`
	Success int `toml:"success"`
	Accent  int `toml:"accent"`
}

type imageTable struct {
	MaxWidth   int    `toml:"max_width"`
	MaxHeight  int    `toml:"max_height"`
	CacheBytes int64  `toml:"cache_bytes"`
	Preload    int    `toml:"preload"`
	Timeout    string `toml:"timeout"`
}

type retryTable struct {
	MaxRetries int    `toml:"max_retries"`
	Delay      string `toml:"delay"`
}

// Load reads the configuration file at path.
func Load(path string) (mdview.Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return mdview.Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg, err := apply(meta, fc)
	if err != nil {
		return mdview.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses configuration from TOML text.
func Decode(data string) (mdview.Config, error) {
	var fc fileConfig
	meta, err := toml.Decode(data, &fc)
	if err != nil {
		return mdview.Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return apply(meta, fc)
}

func apply(meta toml.MetaData, fc fileConfig) (mdview.Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return mdview.Config{}, fmt.Errorf("unknown keys %s: %w", strings.Join(keys, ", "), mdview.ErrValidation)
	}

	cfg := mdview.DefaultConfig()
	set(meta, &cfg.Width, fc.Width, "width")

	t := &cfg.Theme
	set(meta, &t.Text, fc.Theme.Text, "theme", "text")
	set(meta, &t.Heading, fc.Theme.Heading, "theme", "heading")
	set(meta, &t.Link, fc.Theme.Link, "theme", "link")
	set(meta, &t.Code, fc.Theme.Code, "theme", "code")
	set(meta, &t.Quote, fc.Theme.Quote, "theme", "quote")
	set(meta, &t.Math, fc.Theme.Math, "theme", "math")
	set(meta, &t.Muted, fc.Theme.Muted, "theme", "muted")
	set(meta, &t.Error, fc.Theme.Error, "theme", "error")
	set(meta, &t.Success, fc.Theme.Success, "theme", "success")
	set(meta, &t.Accent, fc.Theme.Accent, "theme", "accent")

	img := &cfg.Image
	set(meta, &img.MaxWidth, fc.Image.MaxWidth, "image", "max_width")
	set(meta, &img.MaxHeight, fc.Image.MaxHeight, "image", "max_height")
	set(meta, &img.CacheBytes, fc.Image.CacheBytes, "image", "cache_bytes")
	set(meta, &img.Preload, fc.Image.Preload, "image", "preload")
	if err := setDuration(meta, &img.Timeout, fc.Image.Timeout, "image", "timeout"); err != nil {
		return mdview.Config{}, err
	}

	set(meta, &cfg.Retry.MaxRetries, fc.Retry.MaxRetries, "retry", "max_retries")
	if err := setDuration(meta, &cfg.Retry.Delay, fc.Retry.Delay, "retry", "delay"); err != nil {
		return mdview.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return mdview.Config{}, err
	}
	return cfg, nil
}

// set assigns v to dst when key is present in the file.
func set[T any](meta toml.MetaData, dst *T, v T, key ...string) {
	if meta.IsDefined(key...) {
		*dst = v
	}
}

func setDuration(meta toml.MetaData, dst *time.Duration, v string, key ...string) error {
	if !meta.IsDefined(key...) {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", strings.Join(key, "."), err, mdview.ErrValidation)
	}
	*dst = d
	return nil
}
