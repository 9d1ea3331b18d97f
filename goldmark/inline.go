package goldmark

import (
	"strings"

	"github.com/fwojciec/mdview"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// inlines maps the inline children of n. Adjacent text runs are merged.
func (m *mapper) inlines(n ast.Node) []mdview.Element {
	var out []mdview.Element
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = m.appendInline(out, c)
	}
	if len(out) > 0 {
		if t, ok := out[len(out)-1].(*mdview.Text); ok {
			t.Text = strings.TrimRight(t.Text, " \t\n")
			if t.Text == "" {
				out = out[:len(out)-1]
			}
		}
	}
	return out
}

func (m *mapper) appendInline(out []mdview.Element, n ast.Node) []mdview.Element {
	switch n := n.(type) {
	case *ast.Image:
		return append(out, &mdview.Image{
			RawText: m.markup(n),
			Source:  string(n.Destination),
			Alt:     m.flatText(n),
			Title:   string(n.Title),
		})
	case *ast.Link:
		return append(out, &mdview.Link{
			RawText: m.markup(n),
			URL:     string(n.Destination),
			Text:    m.flatText(n),
			Title:   string(n.Title),
		})
	case *ast.AutoLink:
		return append(out, &mdview.Link{
			RawText: m.markup(n),
			URL:     string(n.URL(m.source)),
			Text:    string(n.Label(m.source)),
		})
	case *ast.Emphasis:
		return append(out, m.emphasis(n))
	case *ast.CodeSpan:
		return append(out, &mdview.CodeInline{RawText: m.markup(n), Code: m.codeSpan(n)})
	case *MathInline:
		return append(out, &mdview.MathInline{RawText: m.markup(n), Content: string(n.Value)})
	default:
		var b strings.Builder
		m.flatten(n, &b)
		return appendText(out, b.String(), m.markup(n))
	}
}

func appendText(out []mdview.Element, s, raw string) []mdview.Element {
	if s == "" {
		return out
	}
	if len(out) > 0 {
		if t, ok := out[len(out)-1].(*mdview.Text); ok {
			t.Text += s
			t.RawText += raw
			return out
		}
	}
	return append(out, &mdview.Text{RawText: raw, Text: s})
}

// emphasis maps an emphasis node. Nested emphasis with a single child, as
// goldmark produces for ***text***, collapses into one element.
func (m *mapper) emphasis(n *ast.Emphasis) *mdview.Emphasis {
	e := &mdview.Emphasis{RawText: m.markup(n), Text: m.flatText(n)}
	var cur ast.Node = n
	for {
		em, ok := cur.(*ast.Emphasis)
		if !ok {
			break
		}
		switch {
		case em.Level >= 3:
			e.IsStrong, e.IsItalic = true, true
		case em.Level == 2:
			e.IsStrong = true
		default:
			e.IsItalic = true
		}
		if em.ChildCount() != 1 {
			break
		}
		cur = em.FirstChild()
	}
	return e
}

func (m *mapper) codeSpan(n *ast.CodeSpan) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(m.source))
		case *ast.String:
			b.Write(c.Value)
		}
	}
	return strings.ReplaceAll(b.String(), "\n", " ")
}

// flatText returns the plain text of n's inline content, trimmed.
func (m *mapper) flatText(n ast.Node) string {
	return strings.TrimSpace(m.flatRaw(n))
}

// flatRaw returns the plain text of n's inline content. A task checkbox
// reads as its "[x] " or "[ ] " marker.
func (m *mapper) flatRaw(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		m.flatten(c, &b)
	}
	return b.String()
}

// checkBox returns the source text goldmark consumed for a task checkbox.
// Only "[ ] ", "[x] " and "[X] " are task markers; a box not followed by a
// space, such as "[x]foo", reads back as its literal text.
func (m *mapper) checkBox(n *extast.TaskCheckBox) string {
	fallback := "[ ] "
	if n.IsChecked {
		fallback = "[x] "
	}
	p := n.Parent()
	if p == nil || p.Lines().Len() == 0 {
		return fallback
	}
	start := p.Lines().At(0).Start
	if start+3 > len(m.source) || m.source[start] != '[' || m.source[start+2] != ']' {
		return fallback
	}
	end := start + 3
	if end < len(m.source) && m.source[end] == ' ' {
		return string(m.source[start : end+1])
	}
	for end < len(m.source) && (m.source[end] == ' ' || m.source[end] == '\t') {
		end++
	}
	return string(m.source[start:end])
}

func (m *mapper) flatten(n ast.Node, b *strings.Builder) {
	switch n := n.(type) {
	case *ast.Text:
		b.WriteString(unescape(n.Segment.Value(m.source)))
		switch {
		case n.HardLineBreak():
			b.WriteByte('\n')
		case n.SoftLineBreak() && n.NextSibling() != nil:
			b.WriteByte(' ')
		}
	case *ast.String:
		b.Write(n.Value)
	case *extast.TaskCheckBox:
		b.WriteString(m.checkBox(n))
	case *ast.CodeSpan:
		b.WriteString(m.codeSpan(n))
	case *ast.AutoLink:
		b.Write(n.Label(m.source))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(m.source))
		}
	case *MathInline:
		b.Write(n.Value)
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			m.flatten(c, b)
		}
	}
}

// markup serializes an inline node back to Markdown. Table cells are stored
// in this form and re-parsed at render time.
func (m *mapper) markup(n ast.Node) string {
	switch n := n.(type) {
	case *ast.CodeSpan:
		return "`" + m.codeSpan(n) + "`"
	case *ast.Image:
		s := "![" + m.flatText(n) + "](" + string(n.Destination)
		if len(n.Title) > 0 {
			s += ` "` + string(n.Title) + `"`
		}
		return s + ")"
	case *ast.Link:
		return "[" + m.flatText(n) + "](" + string(n.Destination) + ")"
	case *ast.AutoLink:
		return "<" + string(n.URL(m.source)) + ">"
	case *ast.Emphasis:
		delim := strings.Repeat("*", n.Level)
		return delim + m.markupChildren(n) + delim
	case *MathInline:
		delim := "$"
		if n.Display {
			delim = "$$"
		}
		return delim + string(n.Value) + delim
	default:
		var b strings.Builder
		m.flatten(n, &b)
		return b.String()
	}
}

func (m *mapper) markupChildren(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(m.markup(c))
	}
	return b.String()
}
