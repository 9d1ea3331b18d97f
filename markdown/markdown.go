// Package markdown renders markdown text to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
package markdown

import (
	"context"
	"log/slog"

	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/goldmark"
	"github.com/fwojciec/mdview/lipgloss"
)

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow. Blocks that fail to parse are
// skipped.
func Render(source string, width int, theme mdview.Theme) string {
	if source == "" {
		return ""
	}
	var elems []mdview.Element
	for e, err := range mdview.ParseString(context.Background(), source, goldmark.New()) {
		if err != nil {
			continue
		}
		elems = append(elems, e)
	}
	return RenderElements(elems, width, theme, nil)
}

// RenderElements renders already parsed elements through the terminal
// provider and joins them with blank lines. Render failures become inline
// error markers and are logged to logger.
func RenderElements(elems []mdview.Element, width int, theme mdview.Theme, logger *slog.Logger) string {
	var opts []mdview.RendererOption
	if logger != nil {
		opts = append(opts, mdview.WithLogger(logger))
	}
	r := mdview.NewRenderer(lipgloss.New(theme), opts...)
	handles := make([]mdview.Handle, 0, len(elems))
	for _, e := range elems {
		handles = append(handles, r.RenderElement(e))
	}
	return lipgloss.Join(handles, width)
}
