package mdview

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"
)

// BlockParser turns the raw text of one block into elements. A block may
// produce several elements or none. Failures are returned as
// *ParseMappingError.
type BlockParser interface {
	ParseBlock(block string) ([]Element, error)
}

// Parse lazily parses r block by block. Elements are yielded as soon as their
// block is parsed. A block that fails to parse yields its error and parsing
// continues with the next block; consumers that want to stop at the first
// failure stop pulling. Cancelling ctx ends the sequence cleanly.
func Parse(ctx context.Context, r io.Reader, p BlockParser) iter.Seq2[Element, error] {
	return func(yield func(Element, error) bool) {
		for block, err := range SplitBlocks(ctx, r) {
			if err != nil {
				yield(nil, err)
				return
			}
			if ctx.Err() != nil {
				return
			}
			elems, err := p.ParseBlock(block)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			for _, e := range elems {
				if !yield(e, nil) {
					return
				}
			}
		}
	}
}

// ParseString is Parse over s.
func ParseString(ctx context.Context, s string, p BlockParser) iter.Seq2[Element, error] {
	return func(yield func(Element, error) bool) {
		for e, err := range Parse(ctx, strings.NewReader(s), p) {
			if !yield(e, err) {
				return
			}
		}
	}
}

// Collect drains seq. It returns every element and all errors joined.
func Collect(seq iter.Seq2[Element, error]) ([]Element, error) {
	var (
		elems []Element
		errs  []error
	)
	for e, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		elems = append(elems, e)
	}
	return elems, errors.Join(errs...)
}
