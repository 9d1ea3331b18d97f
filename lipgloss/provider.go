// Package lipgloss renders mdview elements to ANSI-styled terminal text.
// Handles are *Node values; a node renders itself with View.
package lipgloss

import (
	"strings"

	"github.com/fwojciec/mdview"
)

var _ mdview.Provider = (*Provider)(nil)

// Provider creates terminal nodes styled from a Theme.
type Provider struct {
	styles *Styles
}

// New returns a Provider for theme.
func New(theme mdview.Theme) *Provider {
	s := NewStyles(theme)
	return &Provider{styles: &s}
}

func (p *Provider) Create(v mdview.Visual, props mdview.Props) mdview.Handle {
	return &Node{visual: v, props: clean(props), styles: p.styles}
}

func (p *Provider) Flow(props mdview.Props) mdview.Flow {
	return &Node{visual: mdview.VisualFlow, props: clean(props), styles: p.styles}
}

// View renders h at width. Handles not created by a Provider render as
// the empty string.
func View(h mdview.Handle, width int) string {
	n, ok := h.(*Node)
	if !ok || n == nil {
		return ""
	}
	return n.View(width)
}

// Join renders handles at width separated by blank lines.
func Join(handles []mdview.Handle, width int) string {
	views := make([]string, 0, len(handles))
	for _, h := range handles {
		if v := View(h, width); v != "" {
			views = append(views, v)
		}
	}
	return strings.Join(views, "\n\n")
}
