package mock

import "github.com/fwojciec/mdview"

// Interface compliance checks.
var (
	_ mdview.Capability = (*Capability)(nil)
	_ mdview.Capability = (*UpdatableCapability)(nil)
	_ mdview.Updater    = (*UpdatableCapability)(nil)
)

// Capability is a test double for mdview.Capability without an update path.
type Capability struct {
	RenderFn func(r *mdview.Renderer, e mdview.Element) (mdview.Handle, error)
}

// Render delegates to RenderFn.
func (c *Capability) Render(r *mdview.Renderer, e mdview.Element) (mdview.Handle, error) {
	return c.RenderFn(r, e)
}

// UpdatableCapability is a test double for a capability that also
// implements mdview.Updater.
type UpdatableCapability struct {
	RenderFn func(r *mdview.Renderer, e mdview.Element) (mdview.Handle, error)
	UpdateFn func(r *mdview.Renderer, h mdview.Handle, e mdview.Element) error
}

// Render delegates to RenderFn.
func (c *UpdatableCapability) Render(r *mdview.Renderer, e mdview.Element) (mdview.Handle, error) {
	return c.RenderFn(r, e)
}

// Update delegates to UpdateFn.
func (c *UpdatableCapability) Update(r *mdview.Renderer, h mdview.Handle, e mdview.Element) error {
	return c.UpdateFn(r, h, e)
}
