package mdview

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so rendered
// documents match any color scheme. A negative index means the terminal's
// default foreground.
type Theme struct {
	Text    int // Body text
	Heading int // Headings
	Link    int // Link text
	Code    int // Code spans and code blocks
	Quote   int // Block quote bar
	Math    int // Math blocks and spans
	Muted   int // URLs, gutters, language labels, status bar
	Error   int // Error placeholders
	Success int // Checked task boxes, loaded images
	Accent  int // Focused link, list markers
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Text:    -1,
		Heading: 5,
		Link:    4,
		Code:    3,
		Quote:   8,
		Math:    6,
		Muted:   8,
		Error:   1,
		Success: 2,
		Accent:  5,
	}
}
