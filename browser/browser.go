// Package browser opens links with the operating system's default handler.
// The launcher is selected at build time.
package browser

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"slices"
	"strings"

	"github.com/fwojciec/mdview"
)

var _ mdview.LinkActivator = (*Activator)(nil)

// DefaultSchemes are the URL schemes an Activator opens unless configured
// otherwise.
var DefaultSchemes = []string{"http", "https", "mailto"}

// Activator opens URLs in the system browser. Failures are logged.
type Activator struct {
	logger  *slog.Logger
	schemes []string
	start   func(name string, args ...string) error
}

// Option configures an [Activator].
type Option func(*Activator)

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(a *Activator) { a.logger = l }
}

// WithSchemes replaces the schemes the Activator will open.
func WithSchemes(schemes ...string) Option {
	return func(a *Activator) { a.schemes = schemes }
}

// New creates an [Activator].
func New(opts ...Option) *Activator {
	a := &Activator{
		schemes: DefaultSchemes,
		start:   startDetached,
	}
	for _, o := range opts {
		o(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	return a
}

// Open launches the handler for rawURL and returns without waiting for it.
func (a *Activator) Open(rawURL string) {
	if err := a.open(rawURL); err != nil {
		a.logger.Warn("open link failed", "url", rawURL, "error", err)
		return
	}
	a.logger.Debug("opened link", "url", rawURL)
}

func (a *Activator) open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if !slices.Contains(a.schemes, strings.ToLower(u.Scheme)) {
		return fmt.Errorf("scheme %q not allowed: %w", u.Scheme, mdview.ErrValidation)
	}
	name, args, err := command(u.String())
	if err != nil {
		return err
	}
	if err := a.start(name, args...); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	return nil
}

// startDetached starts the launcher and reaps it in the background.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
