package mdview

// Kind discriminates the element variants.
type Kind int

const (
	KindText Kind = iota + 1
	KindHeading
	KindParagraph
	KindCodeBlock
	KindCodeInline
	KindImage
	KindLink
	KindEmphasis
	KindList
	KindListItem
	KindTaskList
	KindTaskListItem
	KindQuote
	KindTable
	KindHorizontalRule
	KindMathBlock
	KindMathInline
)

var kindNames = map[Kind]string{
	KindText:           "text",
	KindHeading:        "heading",
	KindParagraph:      "paragraph",
	KindCodeBlock:      "code_block",
	KindCodeInline:     "code_inline",
	KindImage:          "image",
	KindLink:           "link",
	KindEmphasis:       "emphasis",
	KindList:           "list",
	KindListItem:       "list_item",
	KindTaskList:       "task_list",
	KindTaskListItem:   "task_list_item",
	KindQuote:          "quote",
	KindTable:          "table",
	KindHorizontalRule: "horizontal_rule",
	KindMathBlock:      "math_block",
	KindMathInline:     "math_inline",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind returns the Kind named s, the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// HeadingLevel is the depth of a heading. Levels deeper than H5 are clamped
// to H5 by parsers.
type HeadingLevel int

const (
	H1 HeadingLevel = iota + 1
	H2
	H3
	H4
	H5
)

// Element is a node of the parsed document tree.
//
// Elements are pointers so the pointer itself is the node identity; they are
// not modified after parsing. Raw returns the exact source text that produced
// the element (containers may carry the whole block).
type Element interface {
	Kind() Kind
	Raw() string
}

// Text is a run of plain text.
type Text struct {
	RawText string
	Text    string
}

func (e *Text) Kind() Kind  { return KindText }
func (e *Text) Raw() string { return e.RawText }

// Heading is an ATX or setext heading.
type Heading struct {
	RawText string
	Level   HeadingLevel
	Text    string
}

func (e *Heading) Kind() Kind  { return KindHeading }
func (e *Heading) Raw() string { return e.RawText }

// Paragraph is a block of inline elements.
type Paragraph struct {
	RawText string
	Inlines []Element
}

func (e *Paragraph) Kind() Kind  { return KindParagraph }
func (e *Paragraph) Raw() string { return e.RawText }

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	RawText  string
	Code     string
	Language string
}

func (e *CodeBlock) Kind() Kind  { return KindCodeBlock }
func (e *CodeBlock) Raw() string { return e.RawText }

// CodeInline is a code span.
type CodeInline struct {
	RawText string
	Code    string
}

func (e *CodeInline) Kind() Kind  { return KindCodeInline }
func (e *CodeInline) Raw() string { return e.RawText }

// Image references an image by URL.
type Image struct {
	RawText string
	Source  string
	Alt     string
	Title   string
}

func (e *Image) Kind() Kind  { return KindImage }
func (e *Image) Raw() string { return e.RawText }

// Link is an inline or automatic link.
type Link struct {
	RawText string
	URL     string
	Text    string
	Title   string
}

func (e *Link) Kind() Kind  { return KindLink }
func (e *Link) Raw() string { return e.RawText }

// Emphasis is emphasized text. A delimiter run of one marks italic, two
// marks strong, three marks both.
type Emphasis struct {
	RawText  string
	Text     string
	IsStrong bool
	IsItalic bool
}

func (e *Emphasis) Kind() Kind  { return KindEmphasis }
func (e *Emphasis) Raw() string { return e.RawText }

// List is an ordered or unordered list. Start is the ordinal of the first
// item of an ordered list.
type List struct {
	RawText   string
	IsOrdered bool
	Start     int
	Items     []*ListItem
}

func (e *List) Kind() Kind  { return KindList }
func (e *List) Raw() string { return e.RawText }

// ListItem is an item of a List. IndentationLevel is 0 for top-level items
// and grows by one per nesting step.
type ListItem struct {
	RawText          string
	Text             string
	Inlines          []Element
	IndentationLevel int
	Children         []*ListItem
}

func (e *ListItem) Kind() Kind  { return KindListItem }
func (e *ListItem) Raw() string { return e.RawText }

// TaskList is an unordered list whose items carry checkboxes.
type TaskList struct {
	RawText string
	Items   []*TaskListItem
}

func (e *TaskList) Kind() Kind  { return KindTaskList }
func (e *TaskList) Raw() string { return e.RawText }

// TaskListItem is an item of a TaskList. The checkbox marker is stripped
// from Text and Inlines.
type TaskListItem struct {
	RawText   string
	Text      string
	IsChecked bool
	Level     int
	Inlines   []Element
	Children  []*TaskListItem
}

func (e *TaskListItem) Kind() Kind  { return KindTaskListItem }
func (e *TaskListItem) Raw() string { return e.RawText }

// Quote is a block quote. Paragraphs inside the quote are separated by
// newline text runs in Inlines.
type Quote struct {
	RawText string
	Text    string
	Inlines []Element
}

func (e *Quote) Kind() Kind  { return KindQuote }
func (e *Quote) Raw() string { return e.RawText }

// Table is a pipe table. Cells hold inline markup as written (see
// ParseCellMarkup). Rows may be shorter or longer than Headers.
type Table struct {
	RawText string
	Headers []string
	Rows    [][]string
}

func (e *Table) Kind() Kind  { return KindTable }
func (e *Table) Raw() string { return e.RawText }

// HorizontalRule is a thematic break.
type HorizontalRule struct {
	RawText string
}

func (e *HorizontalRule) Kind() Kind  { return KindHorizontalRule }
func (e *HorizontalRule) Raw() string { return e.RawText }

// MathBlock is display math.
type MathBlock struct {
	RawText string
	Content string
}

func (e *MathBlock) Kind() Kind  { return KindMathBlock }
func (e *MathBlock) Raw() string { return e.RawText }

// MathInline is inline math.
type MathInline struct {
	RawText string
	Content string
}

func (e *MathInline) Kind() Kind  { return KindMathInline }
func (e *MathInline) Raw() string { return e.RawText }
