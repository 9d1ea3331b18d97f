package mdview

import "strings"

// TableCapability renders tables. Each cell's markup is parsed with
// ParseCellMarkup and rendered as a flow. Rows are clipped to the header
// length and short rows are padded with empty cells.
type TableCapability struct{}

func (TableCapability) Render(r *Renderer, e Element) (Handle, error) {
	t, err := as[*Table](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualTable, tableProps(r, t)), nil
}

func (TableCapability) Update(r *Renderer, h Handle, e Element) error {
	t, err := as[*Table](e)
	if err != nil {
		return err
	}
	h.Set(tableProps(r, t))
	return nil
}

func tableProps(r *Renderer, t *Table) Props {
	header := make([]Handle, len(t.Headers))
	for i, cell := range t.Headers {
		header[i] = cellFlow(r, cell)
	}
	rows := make([][]Handle, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]Handle, len(header))
		for i := range cells {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = cellFlow(r, cell)
		}
		rows = append(rows, cells)
	}
	return Props{Header: header, Rows: rows}
}

func cellFlow(r *Renderer, cell string) Flow {
	flow := r.Provider().Flow(Props{})
	renderInlines(r, flow, ParseCellMarkup(cell))
	return flow
}

// ParseCellMarkup parses the inline markup stored in a table cell: code spans
// in backticks, [text](url) links, ![alt](url "title") images, *italic* and
// **strong** emphasis and $math$. Everything else is text.
func ParseCellMarkup(cell string) []Element {
	var (
		out  []Element
		text strings.Builder
	)
	flush := func() {
		if text.Len() == 0 {
			return
		}
		s := text.String()
		out = append(out, &Text{RawText: s, Text: s})
		text.Reset()
	}
	for i := 0; i < len(cell); {
		if e, n := scanCellInline(cell[i:]); e != nil {
			flush()
			out = append(out, e)
			i += n
			continue
		}
		text.WriteByte(cell[i])
		i++
	}
	flush()
	return out
}

func scanCellInline(s string) (Element, int) {
	switch {
	case s[0] == '`':
		end := strings.IndexByte(s[1:], '`')
		if end < 0 {
			return nil, 0
		}
		n := end + 2
		return &CodeInline{RawText: s[:n], Code: s[1 : end+1]}, n
	case strings.HasPrefix(s, "!["):
		alt, dest, n, ok := scanLink(s[1:])
		if !ok {
			return nil, 0
		}
		n++
		url, title := splitTitle(dest)
		return &Image{RawText: s[:n], Source: url, Alt: alt, Title: title}, n
	case s[0] == '[':
		text, dest, n, ok := scanLink(s)
		if !ok {
			return nil, 0
		}
		url, title := splitTitle(dest)
		return &Link{RawText: s[:n], URL: url, Text: text, Title: title}, n
	case strings.HasPrefix(s, "**"):
		inner, n, ok := scanDelimited(s, "**")
		if !ok {
			return nil, 0
		}
		return &Emphasis{RawText: s[:n], Text: inner, IsStrong: true}, n
	case s[0] == '*':
		inner, n, ok := scanDelimited(s, "*")
		if !ok {
			return nil, 0
		}
		return &Emphasis{RawText: s[:n], Text: inner, IsItalic: true}, n
	case s[0] == '$':
		inner, n, ok := scanDelimited(s, "$")
		if !ok {
			return nil, 0
		}
		return &MathInline{RawText: s[:n], Content: inner}, n
	}
	return nil, 0
}

// scanLink scans "[text](dest)" at the start of s. Parentheses inside dest
// must balance; those inside a quoted title or escaped with a backslash are
// not counted.
func scanLink(s string) (text, dest string, n int, ok bool) {
	mid := strings.Index(s, "](")
	if mid < 0 {
		return "", "", 0, false
	}
	start := mid + 2
	depth := 0
	quoted := false
	for i := start; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return s[1:mid], s[start:i], i + 1, true
			}
			depth--
		}
	}
	return "", "", 0, false
}

func splitTitle(dest string) (url, title string) {
	if i := strings.Index(dest, ` "`); i >= 0 && strings.HasSuffix(dest, `"`) && len(dest) > i+2 {
		return dest[:i], dest[i+2 : len(dest)-1]
	}
	return dest, ""
}

// scanDelimited scans delim + inner + delim at the start of s. inner must be
// non-empty and must not start or end with a space.
func scanDelimited(s, delim string) (inner string, n int, ok bool) {
	end := strings.Index(s[len(delim):], delim)
	if end <= 0 {
		return "", 0, false
	}
	inner = s[len(delim) : len(delim)+end]
	if strings.HasPrefix(inner, " ") || strings.HasSuffix(inner, " ") {
		return "", 0, false
	}
	return inner, end + 2*len(delim), true
}
