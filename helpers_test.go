package mdview_test

import (
	"strings"

	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/mock"
)

// node is a recording handle.
type node struct {
	visual mdview.Visual
	props  mdview.Props
	items  []item
	sets   int
}

type item struct {
	node  *node
	embed bool
}

func (n *node) Set(p mdview.Props) {
	n.props = p
	n.sets++
}

func (n *node) Append(h mdview.Handle) { n.items = append(n.items, item{node: h.(*node)}) }
func (n *node) Embed(h mdview.Handle)  { n.items = append(n.items, item{node: h.(*node), embed: true}) }
func (n *node) Reset()                 { n.items = nil }

// text flattens a flow's inline content.
func (n *node) text() string {
	if n.visual != mdview.VisualFlow {
		return n.props.Text
	}
	var b strings.Builder
	for _, it := range n.items {
		b.WriteString(it.node.text())
	}
	return b.String()
}

// recorder is a Provider that records every handle it creates.
type recorder struct {
	created []*node
}

func (r *recorder) Create(v mdview.Visual, p mdview.Props) mdview.Handle {
	n := &node{visual: v, props: p}
	r.created = append(r.created, n)
	return n
}

func (r *recorder) Flow(p mdview.Props) mdview.Flow {
	n := &node{visual: mdview.VisualFlow, props: p}
	r.created = append(r.created, n)
	return n
}

func (r *recorder) count(v mdview.Visual) int {
	var n int
	for _, c := range r.created {
		if c.visual == v {
			n++
		}
	}
	return n
}

// lineParser turns every block into one Text element per line.
func lineParser() *mock.BlockParser {
	return &mock.BlockParser{
		ParseBlockFn: func(block string) ([]mdview.Element, error) {
			var out []mdview.Element
			for _, line := range strings.Split(block, "\n") {
				out = append(out, &mdview.Text{RawText: line, Text: line})
			}
			return out, nil
		},
	}
}

func texts(elems []mdview.Element) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.Raw())
	}
	return out
}
