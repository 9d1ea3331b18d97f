// Package goldmark parses Markdown blocks into mdview elements using
// goldmark with the table, task list, strikethrough and math extensions.
package goldmark

import (
	"fmt"

	"github.com/fwojciec/mdview"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var _ mdview.BlockParser = (*Parser)(nil)

// Option configures a Parser.
type Option func(*config)

type config struct {
	extensions []goldmark.Extender
}

// WithExtensions adds goldmark extensions on top of the defaults.
func WithExtensions(ext ...goldmark.Extender) Option {
	return func(c *config) {
		c.extensions = append(c.extensions, ext...)
	}
}

// Parser is an mdview.BlockParser backed by goldmark. The goldmark pipeline
// is built once; a Parser is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// New returns a Parser.
func New(opts ...Option) *Parser {
	cfg := config{
		extensions: []goldmark.Extender{
			extension.Table,
			extension.TaskList,
			extension.Strikethrough,
			Math,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Parser{md: goldmark.New(goldmark.WithExtensions(cfg.extensions...))}
}

// ParseBlock parses one block of Markdown. Failures while mapping the syntax
// tree, panics included, are returned as *mdview.ParseMappingError.
func (p *Parser) ParseBlock(block string) (elems []mdview.Element, err error) {
	defer func() {
		if v := recover(); v != nil {
			elems = nil
			err = &mdview.ParseMappingError{Block: block, Err: fmt.Errorf("%w: %v", mdview.ErrPanic, v)}
		}
	}()
	source := []byte(block)
	doc := p.md.Parser().Parse(text.NewReader(source))
	m := &mapper{source: source, block: block}
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		e, err := m.mapBlock(c)
		if err != nil {
			return nil, &mdview.ParseMappingError{Block: block, Err: err}
		}
		if e != nil {
			elems = append(elems, e)
		}
	}
	return elems, nil
}
