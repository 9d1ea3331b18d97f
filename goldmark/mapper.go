package goldmark

import (
	"fmt"
	"strings"

	"github.com/fwojciec/mdview"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
)

// mapper converts the goldmark syntax tree of one block into elements.
type mapper struct {
	source []byte
	block  string
}

func (m *mapper) mapBlock(n ast.Node) (mdview.Element, error) {
	raw := m.raw(n)
	switch n := n.(type) {
	case *ast.Heading:
		return &mdview.Heading{RawText: raw, Level: headingLevel(n.Level), Text: m.flatText(n)}, nil
	case *ast.Paragraph, *ast.TextBlock:
		return m.paragraph(n, raw), nil
	case *ast.FencedCodeBlock:
		lang := string(n.Language(m.source))
		return &mdview.CodeBlock{RawText: raw, Code: m.lines(n), Language: lang}, nil
	case *ast.CodeBlock:
		return &mdview.CodeBlock{RawText: raw, Code: m.lines(n)}, nil
	case *ast.Blockquote:
		return m.quote(n, raw), nil
	case *ast.ThematicBreak:
		return &mdview.HorizontalRule{RawText: raw}, nil
	case *ast.List:
		return m.list(n, raw), nil
	case *extast.Table:
		return m.table(n, raw)
	case *MathBlock:
		return &mdview.MathBlock{RawText: raw, Content: m.lines(n)}, nil
	default:
		s := m.lines(n)
		if s == "" {
			s = raw
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return &mdview.Paragraph{RawText: raw, Inlines: []mdview.Element{&mdview.Text{RawText: s, Text: s}}}, nil
	}
}

// raw returns the source of a top-level node: the whole block when the node
// is alone in it, otherwise every line from the node's first line up to the
// line where the next sibling begins. Marker lines such as "# ", "1. " and
// code fences are part of the slice.
func (m *mapper) raw(n ast.Node) string {
	if n.PreviousSibling() == nil && n.NextSibling() == nil {
		return m.block
	}
	start := m.begin(n)
	stop := len(m.source)
	if next := n.NextSibling(); next != nil {
		stop = m.begin(next)
	}
	if start < 0 || stop > len(m.source) || start >= stop {
		if s := m.span(n); s != "" {
			return s
		}
		return m.block
	}
	return strings.TrimRight(string(m.source[start:stop]), " \t\n")
}

// begin returns the offset of the first source line of a top-level node.
func (m *mapper) begin(n ast.Node) int {
	if n.PreviousSibling() == nil {
		return 0
	}
	if f, ok := n.(*ast.FencedCodeBlock); ok && f.Info != nil {
		return m.lineStart(f.Info.Segment.Start)
	}
	pos := m.firstOffset(n)
	switch n.(type) {
	case *ast.FencedCodeBlock, *MathBlock:
		// Content starts on the line after the opening fence.
		if pos >= 0 {
			if l := m.lineStart(pos); l > 0 {
				return m.lineStart(l - 1)
			}
		}
		pos = -1
	}
	if pos >= 0 {
		return m.lineStart(pos)
	}
	// Nodes without segments, like thematic breaks, own the single line
	// before the next sibling.
	stop := len(m.source)
	if next := n.NextSibling(); next != nil {
		stop = m.begin(next)
	}
	end := stop
	for end > 0 && (m.source[end-1] == '\n' || m.source[end-1] == ' ' || m.source[end-1] == '\t') {
		end--
	}
	if end == 0 {
		return 0
	}
	return m.lineStart(end - 1)
}

// firstOffset returns the smallest source offset held by n's block lines or
// text segments, or -1 when n has none.
func (m *mapper) firstOffset(n ast.Node) int {
	first := -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if c.Type() == ast.TypeBlock {
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				if s := lines.At(i).Start; first < 0 || s < first {
					first = s
				}
			}
		}
		if t, ok := c.(*ast.Text); ok {
			if s := t.Segment.Start; first < 0 || s < first {
				first = s
			}
		}
		return ast.WalkContinue, nil
	})
	return first
}

func (m *mapper) lineStart(pos int) int {
	if pos > len(m.source) {
		pos = len(m.source)
	}
	for pos > 0 && m.source[pos-1] != '\n' {
		pos--
	}
	return pos
}

func headingLevel(level int) mdview.HeadingLevel {
	if level > int(mdview.H5) {
		return mdview.H5
	}
	if level < int(mdview.H1) {
		return mdview.H1
	}
	return mdview.HeadingLevel(level)
}

func (m *mapper) paragraph(n ast.Node, raw string) mdview.Element {
	if n.ChildCount() == 1 {
		if math, ok := n.FirstChild().(*MathInline); ok && math.Display {
			return &mdview.MathBlock{RawText: raw, Content: string(math.Value)}
		}
	}
	return &mdview.Paragraph{RawText: raw, Inlines: m.inlines(n)}
}

func (m *mapper) quote(n *ast.Blockquote, raw string) *mdview.Quote {
	q := &mdview.Quote{RawText: raw}
	var parts []string
	m.collectQuote(n, q, &parts)
	q.Text = strings.Join(parts, "\n")
	return q
}

func (m *mapper) collectQuote(n ast.Node, q *mdview.Quote, parts *[]string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var inlines []mdview.Element
		var flat string
		switch c := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			inlines = m.inlines(c)
			flat = m.flatText(c)
		case *ast.Blockquote:
			m.collectQuote(c, q, parts)
			continue
		default:
			flat = m.lines(c)
			if flat == "" {
				flat = m.span(c)
			}
			if flat != "" {
				inlines = []mdview.Element{&mdview.Text{RawText: flat, Text: flat}}
			}
		}
		if len(inlines) == 0 {
			continue
		}
		if len(q.Inlines) > 0 {
			q.Inlines = append(q.Inlines, &mdview.Text{RawText: "\n", Text: "\n"})
		}
		q.Inlines = append(q.Inlines, inlines...)
		*parts = append(*parts, flat)
	}
}

// list maps a list block. Only unordered lists become task lists, and the
// decision made here holds for every nested level.
func (m *mapper) list(n *ast.List, raw string) mdview.Element {
	if !n.IsOrdered() && m.hasTaskItem(n) {
		return &mdview.TaskList{RawText: raw, Items: m.taskItems(n, 0)}
	}
	start := 1
	if n.IsOrdered() {
		start = n.Start
	}
	return &mdview.List{RawText: raw, IsOrdered: n.IsOrdered(), Start: start, Items: m.listItems(n, 0)}
}

func (m *mapper) hasTaskItem(n *ast.List) bool {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		p := firstParagraph(c)
		if p == nil {
			continue
		}
		if _, _, ok := splitTaskMarker(m.flatRaw(p)); ok {
			return true
		}
	}
	return false
}

func (m *mapper) listItems(n *ast.List, level int) []*mdview.ListItem {
	var items []*mdview.ListItem
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.ListItem); !ok {
			continue
		}
		item := &mdview.ListItem{RawText: m.span(c), IndentationLevel: level}
		if p := firstParagraph(c); p != nil {
			item.Text = m.flatText(p)
			item.Inlines = m.inlines(p)
		}
		if sub := firstSubList(c); sub != nil {
			item.Children = m.listItems(sub, level+1)
		}
		items = append(items, item)
	}
	return items
}

func (m *mapper) taskItems(n *ast.List, level int) []*mdview.TaskListItem {
	var items []*mdview.TaskListItem
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.ListItem); !ok {
			continue
		}
		item := &mdview.TaskListItem{RawText: m.span(c), Level: level}
		if p := firstParagraph(c); p != nil {
			flat := m.flatRaw(p)
			inlines := m.inlines(p)
			if rest, checked, ok := splitTaskMarker(flat); ok {
				item.IsChecked = checked
				flat = rest
				inlines = stripTaskMarker(inlines)
			}
			item.Text = strings.TrimSpace(flat)
			item.Inlines = inlines
		}
		if sub := firstSubList(c); sub != nil {
			item.Children = m.taskItems(sub, level+1)
		}
		items = append(items, item)
	}
	return items
}

// firstParagraph returns the first paragraph directly inside a list item.
func firstParagraph(item ast.Node) ast.Node {
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			return c
		}
	}
	return nil
}

// firstSubList returns the first list nested in a list item. Later nested
// lists of the same item are not mapped.
func firstSubList(item ast.Node) *ast.List {
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if l, ok := c.(*ast.List); ok {
			return l
		}
	}
	return nil
}

const taskMarkerLen = 4

func splitTaskMarker(s string) (rest string, checked, ok bool) {
	if len(s) < taskMarkerLen {
		return s, false, false
	}
	switch s[:taskMarkerLen] {
	case "[ ] ":
		return s[taskMarkerLen:], false, true
	case "[x] ", "[X] ":
		return s[taskMarkerLen:], true, true
	}
	return s, false, false
}

// stripTaskMarker removes the marker from the first inline when it is a text
// run starting with it. A run left empty is dropped.
func stripTaskMarker(inlines []mdview.Element) []mdview.Element {
	if len(inlines) == 0 {
		return inlines
	}
	t, ok := inlines[0].(*mdview.Text)
	if !ok {
		return inlines
	}
	rest, _, ok := splitTaskMarker(t.Text)
	if !ok {
		return inlines
	}
	if strings.TrimSpace(rest) == "" {
		return inlines[1:]
	}
	t.Text = rest
	return inlines
}

func (m *mapper) table(n *extast.Table, raw string) (mdview.Element, error) {
	t := &mdview.Table{RawText: raw}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch row := c.(type) {
		case *extast.TableHeader:
			t.Headers = m.cells(row)
		case *extast.TableRow:
			t.Rows = append(t.Rows, m.cells(row))
		default:
			return nil, fmt.Errorf("unexpected table child %s", c.Kind())
		}
	}
	return t, nil
}

func (m *mapper) cells(row ast.Node) []string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cells = append(cells, strings.TrimSpace(m.markupChildren(c)))
	}
	return cells
}

// lines joins the raw lines of a leaf block.
func (m *mapper) lines(n ast.Node) string {
	lines := n.Lines()
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(m.source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// span returns the source covered by the lines of n and its descendants.
func (m *mapper) span(n ast.Node) string {
	start, stop := -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || c.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := c.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if start < 0 || seg.Start < start {
				start = seg.Start
			}
			if seg.Stop > stop {
				stop = seg.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	if start < 0 || stop > len(m.source) {
		return ""
	}
	return strings.TrimRight(string(m.source[start:stop]), "\n")
}

func unescape(b []byte) string {
	return string(util.UnescapePunctuations(b))
}
