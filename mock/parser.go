package mock

import "github.com/fwojciec/mdview"

var _ mdview.BlockParser = (*BlockParser)(nil)

// BlockParser is a test double for mdview.BlockParser.
// Set ParseBlockFn before calling ParseBlock.
type BlockParser struct {
	ParseBlockFn func(block string) ([]mdview.Element, error)
}

// ParseBlock delegates to ParseBlockFn.
func (p *BlockParser) ParseBlock(block string) ([]mdview.Element, error) {
	return p.ParseBlockFn(block)
}
