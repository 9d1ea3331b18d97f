package goldmark

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Node kinds of the math extension.
var (
	KindMathBlock  = ast.NewNodeKind("MathBlock")
	KindMathInline = ast.NewNodeKind("MathInline")
)

// MathBlock is a $$-fenced block of display math. Its lines hold the
// content between the fences.
type MathBlock struct {
	ast.BaseBlock
}

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }
func (n *MathBlock) IsRaw() bool        { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// MathInline is $inline$ math, or $$display$$ math written inside a line.
type MathInline struct {
	ast.BaseInline
	Value   []byte
	Display bool
}

func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// Math is a goldmark extension that parses $$ fenced math blocks and $ inline
// math. It only extends the parser; rendering is left to the element model.
var Math goldmark.Extender = &mathExtension{}

type mathExtension struct{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 750)),
		parser.WithInlineParsers(util.Prioritized(&mathInlineParser{}, 150)),
	)
}

var mathBlockInfoKey = parser.NewContextKey()

type mathBlockParser struct{}

func (b *mathBlockParser) Trigger() []byte {
	return []byte{'$'}
}

func (b *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, _ := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !isMathFence(line[pos:]) {
		return nil, parser.NoChildren
	}
	pc.Set(mathBlockInfoKey, pos)
	return &MathBlock{}, parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 && isMathFence(line[pos:]) {
		newline := 0
		if line[len(line)-1] == '\n' {
			newline = 1
		}
		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		return parser.Close
	}
	indent, _ := pc.Get(mathBlockInfoKey).(int)
	pos, padding := util.IndentPosition(line, reader.LineOffset(), indent)
	if pos < 0 {
		pos = util.FirstNonSpacePosition(line)
		if pos < 0 {
			pos = 0
		}
		padding = 0
	}
	seg := text.NewSegmentPadding(segment.Start+pos, segment.Stop, padding)
	node.Lines().Append(seg)
	reader.AdvanceAndSetPadding(segment.Stop-segment.Start-pos-1, padding)
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	pc.Set(mathBlockInfoKey, nil)
}

func (b *mathBlockParser) CanInterruptParagraph() bool {
	return true
}

func (b *mathBlockParser) CanAcceptIndentedLine() bool {
	return false
}

// isMathFence reports whether line is "$$" optionally followed by blanks.
func isMathFence(line []byte) bool {
	if len(line) < 2 || line[0] != '$' || line[1] != '$' {
		return false
	}
	return util.IsBlank(line[2:])
}

type mathInlineParser struct{}

func (p *mathInlineParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse follows pandoc's tex_math_dollars rules for single dollars: the
// opener must not be followed by a space, the closer must not be preceded
// by a space nor followed by a digit. Math never spans lines.
func (p *mathInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	delim := 0
	for delim < len(line) && line[delim] == '$' {
		delim++
	}
	if delim > 2 {
		return nil
	}
	body := line[delim:]
	end := closingDollars(body, delim)
	if end <= 0 {
		return nil
	}
	if delim == 1 {
		if isSpace(body[0]) || isSpace(body[end-1]) {
			return nil
		}
		if after := end + 1; after < len(body) && body[after] >= '0' && body[after] <= '9' {
			return nil
		}
	}
	node := &MathInline{
		Value:   append([]byte(nil), body[:end]...),
		Display: delim == 2,
	}
	block.Advance(2*delim + end)
	return node
}

// closingDollars returns the offset in body of a run of exactly delim
// dollars, or -1.
func closingDollars(body []byte, delim int) int {
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '\n', '\r':
			return -1
		case '$':
			j := i
			for j < len(body) && body[j] == '$' {
				j++
			}
			if j-i == delim {
				return i
			}
			i = j - 1
		}
	}
	return -1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}
