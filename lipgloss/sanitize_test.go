package lipgloss_test

import (
	"testing"

	"github.com/fwojciec/mdview"
	mdlipgloss "github.com/fwojciec/mdview/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "hello world", "hello world"},
		{"strips color codes", "\x1b[31mhello\x1b[0m", "hello"},
		{"strips OSC sequences", "\x1b]0;title\x07text", "text"},
		{"keeps tabs and newlines", "a\tb\nc", "a\tb\nc"},
		{"removes control characters", "a\x01b\x02c\x07", "abc"},
		{"removes DEL", "a\x7fb", "ab"},
		{"normalizes CRLF", "a\r\nb\r\n", "a\nb\n"},
		{"lone CR overwrites", "progress 50%\rprogress done", "progress done"},
		{"shorter overwrite keeps tail", "abcdef\rxy", "xycdef"},
		{"empty", "", ""},
		{"unicode unchanged", "日本 ✓", "日本 ✓"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mdlipgloss.Sanitize(tt.in))
		})
	}
}

func TestNode_SanitizesProps(t *testing.T) {
	t.Parallel()

	t.Run("on create", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(render(t, &mdview.Heading{Level: mdview.H3, Text: "a\x1b[2Jb"}, 80))
		assert.Equal(t, "ab", out)
	})

	t.Run("on set", func(t *testing.T) {
		t.Parallel()
		p := mdlipgloss.New(mdview.DefaultTheme())
		h := p.Create(mdview.VisualText, mdview.Props{Text: "x"})
		h.Set(mdview.Props{Text: "\x1b]8;;http://evil\x07click", URL: "http://a\x07"})
		n, ok := h.(*mdlipgloss.Node)
		require.True(t, ok)
		assert.Equal(t, "click", n.Props().Text)
		assert.Equal(t, "http://a", n.Props().URL)
	})
}
