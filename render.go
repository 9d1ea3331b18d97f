package mdview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Visual names the kind of visual object a Provider creates.
type Visual int

const (
	VisualText Visual = iota + 1
	VisualHeading
	VisualFlow
	VisualCode
	VisualCodeInline
	VisualQuote
	VisualImage
	VisualLink
	VisualRule
	VisualMath
	VisualMathInline
	VisualList
	VisualListItem
	VisualTable
	VisualError
)

// ImageState is the load state of an image handle.
type ImageState int

const (
	ImagePending ImageState = iota // No resolver or no source
	ImageLoading
	ImageLoaded
	ImageFailed
)

// Props is the content of a visual object. Which fields are meaningful
// depends on the Visual.
type Props struct {
	Text     string
	Level    int
	Strong   bool
	Italic   bool
	Language string
	URL      string
	Title    string

	// List items.
	Marker  string
	Ordered bool
	Task    bool
	Checked bool

	// Images.
	Image ImageState
	Data  []byte

	// Containers.
	Children []Handle
	Header   []Handle
	Rows     [][]Handle

	// Activate is set on links; calling it opens the URL.
	Activate func()
}

// Handle is a visual object created by a Provider. Set replaces its content
// in place. Handles are compared by identity.
type Handle interface {
	Set(p Props)
}

// Flow is a container of inline handles laid out as wrapped text.
type Flow interface {
	Handle
	Append(h Handle)
	Embed(h Handle)
	Reset()
}

// Provider creates visual objects. The render engine never inspects the
// handles it gets back.
type Provider interface {
	Create(v Visual, p Props) Handle
	Flow(p Props) Flow
}

// Capability renders one element kind.
type Capability interface {
	Render(r *Renderer, e Element) (Handle, error)
}

// Updater is implemented by capabilities that can replace the content of a
// previously rendered handle.
type Updater interface {
	Update(r *Renderer, h Handle, e Element) error
}

// ImageResolver fetches and caches image bytes.
type ImageResolver interface {
	GetImage(ctx context.Context, url string) ([]byte, error)
	CacheImage(ctx context.Context, url string, data []byte) error
}

// Peeker is implemented by resolvers that can return cached bytes without
// blocking.
type Peeker interface {
	Peek(url string) ([]byte, bool)
}

// LinkActivator opens URLs. Failures are the activator's to report.
type LinkActivator interface {
	Open(url string)
}

// Scheduler runs fn on the goroutine that owns the visual tree.
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

func (f SchedulerFunc) Post(fn func()) { f(fn) }

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithCapability registers c for kind, replacing the default.
func WithCapability(kind Kind, c Capability) RendererOption {
	return func(r *Renderer) {
		r.caps[kind] = c
	}
}

// WithLogger sets the logger used to report render failures.
func WithLogger(l *slog.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = loggerOrDiscard(l)
	}
}

// Renderer dispatches elements to per-kind capabilities. It is not safe for
// concurrent use; call it from the goroutine that owns the visual tree.
type Renderer struct {
	provider Provider
	logger   *slog.Logger
	caps     map[Kind]Capability
}

// NewRenderer returns a Renderer with a capability registered for every
// element kind.
func NewRenderer(p Provider, opts ...RendererOption) *Renderer {
	r := &Renderer{
		provider: p,
		logger:   loggerOrDiscard(nil),
		caps: map[Kind]Capability{
			KindText:           TextCapability{},
			KindHeading:        HeadingCapability{},
			KindParagraph:      ParagraphCapability{},
			KindEmphasis:       EmphasisCapability{},
			KindCodeBlock:      CodeBlockCapability{},
			KindCodeInline:     CodeInlineCapability{},
			KindImage:          &ImageCapability{},
			KindLink:           LinkCapability{},
			KindQuote:          QuoteCapability{},
			KindList:           ListCapability{},
			KindTaskList:       TaskListCapability{},
			KindTable:          TableCapability{},
			KindHorizontalRule: RuleCapability{},
			KindMathBlock:      MathBlockCapability{},
			KindMathInline:     MathInlineCapability{},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Provider returns the provider handles are created with.
func (r *Renderer) Provider() Provider { return r.provider }

// Logger returns the renderer's logger.
func (r *Renderer) Logger() *slog.Logger { return r.logger }

// Register sets the capability for kind, replacing any existing one.
func (r *Renderer) Register(kind Kind, c Capability) {
	r.caps[kind] = c
}

// Capability returns the capability registered for kind.
func (r *Renderer) Capability(kind Kind) (Capability, bool) {
	c, ok := r.caps[kind]
	return c, ok
}

// RenderElement renders e through the capability registered for its kind.
// It returns nil for a nil element or a kind with no capability. A failing
// capability yields an error placeholder instead of an error.
func (r *Renderer) RenderElement(e Element) Handle {
	if e == nil {
		return nil
	}
	c, ok := r.caps[e.Kind()]
	if !ok {
		r.logger.Debug("no capability for element", "kind", e.Kind())
		return nil
	}
	h, err := r.render(c, e)
	if err != nil {
		return r.placeholder(err)
	}
	return h
}

// RenderInline renders an inline element into sink. Images are embedded;
// text, emphasis, code spans, links and inline math are appended. Other
// kinds are ignored.
func (r *Renderer) RenderInline(sink Flow, e Element) {
	if sink == nil || e == nil {
		return
	}
	switch e.Kind() {
	case KindText, KindEmphasis, KindCodeInline, KindLink, KindMathInline:
		if h := r.RenderElement(e); h != nil {
			sink.Append(h)
		}
	case KindImage:
		if h := r.RenderElement(e); h != nil {
			sink.Embed(h)
		}
	}
}

var updatable = map[Kind]bool{
	KindHeading:   true,
	KindParagraph: true,
	KindCodeBlock: true,
	KindList:      true,
	KindTaskList:  true,
	KindQuote:     true,
	KindImage:     true,
	KindLink:      true,
	KindTable:     true,
	KindEmphasis:  true,
}

// UpdateElement replaces the content of h, previously rendered for an
// element of the same kind, with e. Kinds without an update path return
// ErrNotUpdatable and must be re-rendered.
func (r *Renderer) UpdateElement(h Handle, e Element) (err error) {
	if h == nil || e == nil {
		return fmt.Errorf("update requires a handle and an element: %w", ErrValidation)
	}
	if !updatable[e.Kind()] {
		return fmt.Errorf("update %s: %w", e.Kind(), ErrNotUpdatable)
	}
	c, ok := r.caps[e.Kind()]
	if !ok {
		return fmt.Errorf("update %s: %w", e.Kind(), ErrUnknownKind)
	}
	u, ok := c.(Updater)
	if !ok {
		return fmt.Errorf("update %s: %w", e.Kind(), ErrNotUpdatable)
	}
	defer func() {
		if v := recover(); v != nil {
			err = &RenderError{Kind: e.Kind(), Err: fmt.Errorf("%w: %v", ErrPanic, v)}
		}
	}()
	if err := u.Update(r, h, e); err != nil {
		return wrapRenderError(e.Kind(), err)
	}
	return nil
}

func (r *Renderer) render(c Capability, e Element) (h Handle, err error) {
	defer func() {
		if v := recover(); v != nil {
			h = nil
			err = &RenderError{Kind: e.Kind(), Err: fmt.Errorf("%w: %v", ErrPanic, v)}
		}
	}()
	h, err = c.Render(r, e)
	if err != nil {
		return nil, wrapRenderError(e.Kind(), err)
	}
	return h, nil
}

func (r *Renderer) placeholder(err error) Handle {
	r.logger.Error("render failed", "error", err)
	return r.provider.Create(VisualError, Props{Text: err.Error()})
}

func wrapRenderError(kind Kind, err error) error {
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}
	return &RenderError{Kind: kind, Err: err}
}

// as asserts the concrete element type a capability expects.
func as[E Element](e Element) (E, error) {
	v, ok := e.(E)
	if !ok {
		var zero E
		return zero, fmt.Errorf("%w: got %s", ErrKindMismatch, e.Kind())
	}
	return v, nil
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
