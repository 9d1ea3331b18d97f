// Package mock provides test doubles for mdview interfaces using function fields.
package mock

import "github.com/fwojciec/mdview"

// Interface compliance checks.
var (
	_ mdview.Provider = (*Provider)(nil)
	_ mdview.Handle   = (*Handle)(nil)
	_ mdview.Flow     = (*Flow)(nil)
)

// Provider is a test double for mdview.Provider.
// Set CreateFn and FlowFn before calling the matching methods.
type Provider struct {
	CreateFn func(v mdview.Visual, p mdview.Props) mdview.Handle
	FlowFn   func(p mdview.Props) mdview.Flow
}

// Create delegates to CreateFn.
func (p *Provider) Create(v mdview.Visual, props mdview.Props) mdview.Handle {
	return p.CreateFn(v, props)
}

// Flow delegates to FlowFn.
func (p *Provider) Flow(props mdview.Props) mdview.Flow {
	return p.FlowFn(props)
}

// Handle is a test double for mdview.Handle.
type Handle struct {
	SetFn func(p mdview.Props)
}

// Set delegates to SetFn.
func (h *Handle) Set(p mdview.Props) {
	h.SetFn(p)
}

// Flow is a test double for mdview.Flow.
// Set the function fields for the methods you need.
type Flow struct {
	SetFn    func(p mdview.Props)
	AppendFn func(h mdview.Handle)
	EmbedFn  func(h mdview.Handle)
	ResetFn  func()
}

// Set delegates to SetFn.
func (f *Flow) Set(p mdview.Props) {
	f.SetFn(p)
}

// Append delegates to AppendFn.
func (f *Flow) Append(h mdview.Handle) {
	f.AppendFn(h)
}

// Embed delegates to EmbedFn.
func (f *Flow) Embed(h mdview.Handle) {
	f.EmbedFn(h)
}

// Reset delegates to ResetFn.
func (f *Flow) Reset() {
	f.ResetFn()
}
