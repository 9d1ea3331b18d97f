package mdview

import (
	"context"
	"log/slog"
	"sync"
)

// ImageCapability renders images. The handle is returned at once in the
// pending state; when a Resolver is set the bytes are fetched on a separate
// goroutine and applied to the handle through Scheduler. Cached bytes from a
// Peeker resolver are applied synchronously.
type ImageCapability struct {
	Resolver  ImageResolver
	Scheduler Scheduler // nil runs updates on the fetch goroutine
	Context   context.Context
	Logger    *slog.Logger

	mu   sync.Mutex
	seq  uint64
	gens map[Handle]uint64 // handles with a fetch in flight
}

func (c *ImageCapability) Render(r *Renderer, e Element) (Handle, error) {
	img, err := as[*Image](e)
	if err != nil {
		return nil, err
	}
	h := r.Provider().Create(VisualImage, imageProps(img, ImagePending, nil))
	c.load(h, img)
	return h, nil
}

func (c *ImageCapability) Update(r *Renderer, h Handle, e Element) error {
	img, err := as[*Image](e)
	if err != nil {
		return err
	}
	h.Set(imageProps(img, ImagePending, nil))
	c.load(h, img)
	return nil
}

func (c *ImageCapability) load(h Handle, img *Image) {
	c.forget(h)
	if c.Resolver == nil || img.Source == "" {
		return
	}
	if p, ok := c.Resolver.(Peeker); ok {
		if data, ok := p.Peek(img.Source); ok {
			h.Set(imageProps(img, ImageLoaded, data))
			return
		}
	}
	h.Set(imageProps(img, ImageLoading, nil))
	gen := c.track(h)
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		data, err := c.Resolver.GetImage(ctx, img.Source)
		c.post(func() {
			if !c.finish(h, gen) {
				return
			}
			if err != nil {
				loggerOrDiscard(c.Logger).Warn("image load failed", "url", img.Source, "error", err)
				h.Set(imageProps(img, ImageFailed, nil))
				return
			}
			h.Set(imageProps(img, ImageLoaded, data))
		})
	}()
}

// track records a fetch for h, superseding any fetch already in flight.
func (c *ImageCapability) track(h Handle) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens == nil {
		c.gens = make(map[Handle]uint64)
	}
	c.seq++
	c.gens[h] = c.seq
	return c.seq
}

// forget drops any fetch in flight for h; its result will be ignored.
func (c *ImageCapability) forget(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.gens, h)
}

// finish reports whether gen is still the current fetch for h and, if so,
// stops tracking h.
func (c *ImageCapability) finish(h Handle, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[h] != gen {
		return false
	}
	delete(c.gens, h)
	return true
}

// Pending returns the number of handles with a fetch in flight.
func (c *ImageCapability) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.gens)
}

func (c *ImageCapability) post(fn func()) {
	if c.Scheduler != nil {
		c.Scheduler.Post(fn)
		return
	}
	fn()
}

func imageProps(img *Image, state ImageState, data []byte) Props {
	return Props{Text: img.Alt, URL: img.Source, Title: img.Title, Image: state, Data: data}
}

// LinkCapability renders links. The handle's Activate callback opens the
// URL through Activator.
type LinkCapability struct {
	Activator LinkActivator
}

func (c LinkCapability) Render(r *Renderer, e Element) (Handle, error) {
	l, err := as[*Link](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualLink, c.props(l)), nil
}

func (c LinkCapability) Update(r *Renderer, h Handle, e Element) error {
	l, err := as[*Link](e)
	if err != nil {
		return err
	}
	h.Set(c.props(l))
	return nil
}

func (c LinkCapability) props(l *Link) Props {
	text := l.Text
	if text == "" {
		text = l.URL
	}
	url := l.URL
	return Props{
		Text:  text,
		URL:   url,
		Title: l.Title,
		Activate: func() {
			if c.Activator != nil && url != "" {
				c.Activator.Open(url)
			}
		},
	}
}
