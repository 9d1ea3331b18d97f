package lipgloss

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/mdview"
)

// clean sanitizes the document-supplied strings in p so that escape
// sequences in a Markdown source cannot reach the terminal.
func clean(p mdview.Props) mdview.Props {
	p.Text = Sanitize(p.Text)
	p.URL = Sanitize(p.URL)
	p.Title = Sanitize(p.Title)
	p.Language = Sanitize(p.Language)
	p.Marker = Sanitize(p.Marker)
	return p
}

// Sanitize strips ANSI escape sequences and control characters from s.
// Tabs and newlines are kept. CRLF becomes LF, and a lone CR overwrites the
// start of its line the way a terminal would.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' || (r > 0x1F && r != 0x7F) {
			b.WriteRune(r)
		}
	}
	s = b.String()

	if !strings.ContainsRune(s, '\r') {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.ContainsRune(line, '\r') {
			lines[i] = overwrite(line)
		}
	}
	return strings.Join(lines, "\n")
}

func needsSanitize(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 0x20 && c != '\t' && c != '\n') || c == 0x7F {
			return true
		}
	}
	// C1 controls such as CSI (U+009B) are two bytes in UTF-8.
	return strings.ContainsRune(s, '\u009b') || strings.ContainsRune(s, '\u009d')
}

// overwrite resolves carriage returns within one line: each CR moves back to
// column zero and later text overwrites what was there.
func overwrite(line string) string {
	segments := strings.Split(line, "\r")
	buf := []rune(segments[0])
	for _, seg := range segments[1:] {
		for j, r := range []rune(seg) {
			if j < len(buf) {
				buf[j] = r
			} else {
				buf = append(buf, r)
			}
		}
	}
	return string(buf)
}
