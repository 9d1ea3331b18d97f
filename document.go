package mdview

import "fmt"

// Document tracks the handle rendered for each top-level element, in order,
// so parts of a rendered document can be updated without rebuilding the
// rest. Like Renderer it is used from the goroutine that owns the visual
// tree.
type Document struct {
	r       *Renderer
	entries []entry
}

type entry struct {
	elem   Element
	handle Handle
}

// SyncResult counts what Sync did to each position.
type SyncResult struct {
	Kept     int // Same kind and source, handle reused
	Updated  int // Same kind, updated in place
	Replaced int // Re-rendered into a new handle
	Added    int
	Removed  int
}

// NewDocument returns an empty document rendering through r.
func NewDocument(r *Renderer) *Document {
	return &Document{r: r}
}

// Append renders e and tracks it at the end of the document. The returned
// handle is nil when no capability handles e's kind; e is tracked anyway.
func (d *Document) Append(e Element) Handle {
	h := d.r.RenderElement(e)
	d.entries = append(d.entries, entry{elem: e, handle: h})
	return h
}

// Handle returns the handle rendered for e.
func (d *Document) Handle(e Element) (Handle, bool) {
	i := d.index(e)
	if i < 0 {
		return nil, false
	}
	return d.entries[i].handle, true
}

// Replace swaps old for e. The old handle is updated in place when the kinds
// match and the kind supports it; otherwise e is rendered into a new handle.
func (d *Document) Replace(old, e Element) (Handle, error) {
	if old == nil || e == nil {
		return nil, fmt.Errorf("replace requires two elements: %w", ErrValidation)
	}
	i := d.index(old)
	if i < 0 {
		return nil, fmt.Errorf("replace %s: %w", old.Kind(), ErrNotFound)
	}
	h, _ := d.replaceAt(i, e)
	return h, nil
}

// replaceAt reports whether the existing handle was updated in place.
func (d *Document) replaceAt(i int, e Element) (Handle, bool) {
	cur := d.entries[i]
	if cur.handle != nil && cur.elem.Kind() == e.Kind() {
		if err := d.r.UpdateElement(cur.handle, e); err == nil {
			d.entries[i] = entry{elem: e, handle: cur.handle}
			return cur.handle, true
		}
	}
	h := d.r.RenderElement(e)
	d.entries[i] = entry{elem: e, handle: h}
	return h, false
}

// Sync brings the document in line with elems, the result of re-parsing the
// same source. Positions whose element has the same kind and source text
// keep their handle; others are updated in place or re-rendered. Surplus
// entries are dropped.
func (d *Document) Sync(elems []Element) SyncResult {
	var res SyncResult
	for i, e := range elems {
		if i >= len(d.entries) {
			d.Append(e)
			res.Added++
			continue
		}
		cur := d.entries[i]
		if cur.elem.Kind() == e.Kind() && cur.elem.Raw() == e.Raw() {
			d.entries[i].elem = e
			res.Kept++
			continue
		}
		if _, updated := d.replaceAt(i, e); updated {
			res.Updated++
		} else {
			res.Replaced++
		}
	}
	if len(d.entries) > len(elems) {
		res.Removed = len(d.entries) - len(elems)
		clear(d.entries[len(elems):])
		d.entries = d.entries[:len(elems)]
	}
	return res
}

// Len returns the number of tracked elements.
func (d *Document) Len() int { return len(d.entries) }

// Elements returns the tracked elements in order.
func (d *Document) Elements() []Element {
	out := make([]Element, len(d.entries))
	for i, en := range d.entries {
		out[i] = en.elem
	}
	return out
}

// Handles returns the non-nil handles in order.
func (d *Document) Handles() []Handle {
	out := make([]Handle, 0, len(d.entries))
	for _, en := range d.entries {
		if en.handle != nil {
			out = append(out, en.handle)
		}
	}
	return out
}

func (d *Document) index(e Element) int {
	for i, en := range d.entries {
		if en.elem == e {
			return i
		}
	}
	return -1
}
