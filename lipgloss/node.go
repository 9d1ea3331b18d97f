package lipgloss

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fwojciec/mdview"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/rivo/uniseg"
)

const defaultWidth = 80

var (
	_ mdview.Handle = (*Node)(nil)
	_ mdview.Flow   = (*Node)(nil)
)

// Node is a terminal visual object. Image loads may update a node from
// another goroutine, so nodes lock their own state.
type Node struct {
	mu     sync.RWMutex
	visual mdview.Visual
	props  mdview.Props
	spans  []span
	styles *Styles
}

type span struct {
	node  *Node
	embed bool
}

// Visual returns the kind of visual object n is.
func (n *Node) Visual() mdview.Visual { return n.visual }

// Props returns n's current content.
func (n *Node) Props() mdview.Props {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.props
}

func (n *Node) Set(p mdview.Props) {
	p = clean(p)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.props = p
}

func (n *Node) Append(h mdview.Handle) { n.add(h, false) }
func (n *Node) Embed(h mdview.Handle)  { n.add(h, true) }

func (n *Node) add(h mdview.Handle, embed bool) {
	child, ok := h.(*Node)
	if !ok || child == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.spans = append(n.spans, span{node: child, embed: embed})
}

func (n *Node) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.spans = nil
}

// View renders n as a block at width cells.
func (n *Node) View(width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	switch n.visual {
	case mdview.VisualHeading:
		return n.heading(width)
	case mdview.VisualFlow:
		return n.flow(width)
	case mdview.VisualCode:
		return n.code(width)
	case mdview.VisualQuote:
		return n.quote(width)
	case mdview.VisualMath:
		return n.math(width)
	case mdview.VisualRule:
		return n.styles.Muted.Render(strings.Repeat("─", width))
	case mdview.VisualList:
		return n.list(width)
	case mdview.VisualListItem:
		return n.listItem(width)
	case mdview.VisualTable:
		return n.table(width)
	default:
		return reflow(n.inline(), width)
	}
}

// Inline renders n as a run of styled text without wrapping.
func (n *Node) Inline() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inline()
}

func (n *Node) inline() string {
	p := n.props
	switch n.visual {
	case mdview.VisualText:
		style := n.styles.Text
		if p.Strong {
			style = style.Bold(true)
		}
		if p.Italic {
			style = style.Italic(true)
		}
		return style.Render(p.Text)
	case mdview.VisualCodeInline:
		return n.styles.Code.Render(p.Text)
	case mdview.VisualMathInline:
		return n.styles.Math.Render(p.Text)
	case mdview.VisualLink:
		if p.Text == p.URL {
			return n.styles.Link.Render(p.Text)
		}
		return n.styles.Link.Render(p.Text) + " " + n.styles.Muted.Render("("+p.URL+")")
	case mdview.VisualImage:
		return n.imageLabel()
	case mdview.VisualError:
		return n.styles.Error.Render("✗ " + p.Text)
	case mdview.VisualFlow:
		var b strings.Builder
		for _, s := range n.spans {
			b.WriteString(s.node.Inline())
		}
		return b.String()
	default:
		return p.Text
	}
}

func (n *Node) imageLabel() string {
	p := n.props
	alt := p.Text
	if alt == "" {
		alt = "image"
	}
	switch p.Image {
	case mdview.ImageLoading:
		return n.styles.Muted.Render("[" + alt + ": loading…]")
	case mdview.ImageLoaded:
		return n.styles.Success.Render("[" + alt + ": " + imageSize(p.Data) + "]")
	case mdview.ImageFailed:
		return n.styles.Error.Render("["+alt+": unavailable]") + " " + n.styles.Muted.Render("("+p.URL+")")
	default:
		return n.styles.Muted.Render("["+alt+"]") + " " + n.styles.Muted.Render("("+p.URL+")")
	}
}

func imageSize(data []byte) string {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Sprintf("%d bytes", len(data))
	}
	return fmt.Sprintf("%s %dx%d", format, cfg.Width, cfg.Height)
}

func (n *Node) heading(width int) string {
	p := n.props
	out := reflow(n.styles.heading(p.Level).Render(p.Text), width)
	var rule string
	switch p.Level {
	case 1:
		rule = "═"
	case 2:
		rule = "─"
	default:
		return out
	}
	w := min(uniseg.StringWidth(p.Text), width)
	return out + "\n" + n.styles.Muted.Render(strings.Repeat(rule, w))
}

// flow wraps inline content to width. Embedded nodes break the text and
// render as blocks of their own.
func (n *Node) flow(width int) string {
	var (
		parts []string
		line  strings.Builder
	)
	flush := func() {
		if line.Len() > 0 {
			parts = append(parts, reflow(line.String(), width))
			line.Reset()
		}
	}
	for _, s := range n.spans {
		if s.embed {
			flush()
			parts = append(parts, s.node.View(width))
			continue
		}
		line.WriteString(s.node.Inline())
	}
	flush()
	return strings.Join(parts, "\n")
}

func (n *Node) code(width int) string {
	p := n.props
	var b strings.Builder
	if p.Language != "" {
		b.WriteString(n.styles.Muted.Render(p.Language))
		b.WriteString("\n")
	}
	b.WriteString(n.gutter(p.Text, width, n.styles.Code))
	return b.String()
}

func (n *Node) math(width int) string {
	return n.gutter(n.props.Text, width, n.styles.Math)
}

// gutter renders text line by line behind a muted bar, truncating lines
// that do not fit.
func (n *Node) gutter(text string, width int, style lipgloss.Style) string {
	bar := n.styles.Muted.Render("│") + " "
	avail := max(width-2, 1)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", "    ")
		if runewidth.StringWidth(line) > avail {
			line = runewidth.Truncate(line, avail, "…")
		}
		lines[i] = bar + style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (n *Node) quote(width int) string {
	bar := n.styles.Quote.Render("┃") + " "
	inner := max(width-2, 10)
	var lines []string
	for _, child := range n.props.Children {
		for _, line := range strings.Split(View(child, inner), "\n") {
			lines = append(lines, bar+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (n *Node) list(width int) string {
	views := make([]string, 0, len(n.props.Children))
	for _, item := range n.props.Children {
		views = append(views, View(item, width))
	}
	return strings.Join(views, "\n")
}

// listItem writes the marker before the first line of the item's text and
// indents continuation lines and nested lists to the text column.
func (n *Node) listItem(width int) string {
	p := n.props
	var marker string
	switch {
	case p.Task && p.Checked:
		marker = n.styles.Success.Render("[x]")
	case p.Task:
		marker = n.styles.Muted.Render("[ ]")
	default:
		marker = n.styles.Accent.Render(p.Marker)
	}
	prefix := marker + " "
	prefixWidth := lipgloss.Width(prefix)
	itemWidth := max(width-prefixWidth, 10)

	var b strings.Builder
	if len(p.Children) > 0 {
		lines := strings.Split(View(p.Children[0], itemWidth), "\n")
		continuation := strings.Repeat(" ", prefixWidth)
		for i, line := range lines {
			if i == 0 {
				b.WriteString(prefix + line)
				continue
			}
			b.WriteString("\n" + continuation + line)
		}
	} else {
		b.WriteString(strings.TrimRight(prefix, " "))
	}
	for _, sub := range p.Children[min(1, len(p.Children)):] {
		b.WriteString("\n")
		b.WriteString(indent.String(View(sub, itemWidth), uint(prefixWidth)))
	}
	return b.String()
}

func (n *Node) table(width int) string {
	header := inlines(n.props.Header)
	rows := make([][]string, 0, len(n.props.Rows))
	for _, row := range n.props.Rows {
		cells := inlines(row)
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		rows = append(rows, cells)
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(n.styles.Muted).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			return cell
		})
	out := t.String()
	if lipgloss.Width(out) > width {
		out = t.Width(width).String()
	}
	return out
}

func inlines(handles []mdview.Handle) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		if n, ok := h.(*Node); ok && n != nil {
			out[i] = n.Inline()
		}
	}
	return out
}

// reflow word-wraps s to width, breaking words longer than a line.
func reflow(s string, width int) string {
	return wrap.String(wordwrap.String(s, width), width)
}
