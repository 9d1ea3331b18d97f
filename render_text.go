package mdview

// TextCapability renders plain text runs.
type TextCapability struct{}

func (TextCapability) Render(r *Renderer, e Element) (Handle, error) {
	t, err := as[*Text](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualText, Props{Text: t.Text}), nil
}

// EmphasisCapability renders bold and italic runs.
type EmphasisCapability struct{}

func (EmphasisCapability) Render(r *Renderer, e Element) (Handle, error) {
	em, err := as[*Emphasis](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualText, emphasisProps(em)), nil
}

func (EmphasisCapability) Update(r *Renderer, h Handle, e Element) error {
	em, err := as[*Emphasis](e)
	if err != nil {
		return err
	}
	h.Set(emphasisProps(em))
	return nil
}

func emphasisProps(em *Emphasis) Props {
	return Props{Text: em.Text, Strong: em.IsStrong, Italic: em.IsItalic}
}

// HeadingCapability renders headings.
type HeadingCapability struct{}

func (HeadingCapability) Render(r *Renderer, e Element) (Handle, error) {
	hd, err := as[*Heading](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualHeading, headingProps(hd)), nil
}

func (HeadingCapability) Update(r *Renderer, h Handle, e Element) error {
	hd, err := as[*Heading](e)
	if err != nil {
		return err
	}
	h.Set(headingProps(hd))
	return nil
}

func headingProps(hd *Heading) Props {
	level := hd.Level
	if level < H1 {
		level = H1
	}
	if level > H5 {
		level = H5
	}
	return Props{Text: hd.Text, Level: int(level)}
}

// ParagraphCapability renders a paragraph as a flow of its inlines. A
// paragraph holding exactly one image renders as that image.
type ParagraphCapability struct{}

func (ParagraphCapability) Render(r *Renderer, e Element) (Handle, error) {
	p, err := as[*Paragraph](e)
	if err != nil {
		return nil, err
	}
	if img := soleImage(p); img != nil {
		return r.RenderElement(img), nil
	}
	flow := r.Provider().Flow(Props{})
	renderInlines(r, flow, p.Inlines)
	return flow, nil
}

// Update refills the paragraph's flow. Paragraphs that collapse to a single
// image, or handles that are not flows, cannot be updated in place.
func (ParagraphCapability) Update(r *Renderer, h Handle, e Element) error {
	p, err := as[*Paragraph](e)
	if err != nil {
		return err
	}
	flow, ok := h.(Flow)
	if !ok || soleImage(p) != nil {
		return ErrNotUpdatable
	}
	flow.Reset()
	renderInlines(r, flow, p.Inlines)
	return nil
}

func soleImage(p *Paragraph) *Image {
	if len(p.Inlines) != 1 {
		return nil
	}
	img, _ := p.Inlines[0].(*Image)
	return img
}

func renderInlines(r *Renderer, sink Flow, inlines []Element) {
	for _, in := range inlines {
		r.RenderInline(sink, in)
	}
}

// QuoteCapability renders a block quote around a flow of its inlines.
type QuoteCapability struct{}

func (QuoteCapability) Render(r *Renderer, e Element) (Handle, error) {
	q, err := as[*Quote](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualQuote, quoteProps(r, q)), nil
}

func (QuoteCapability) Update(r *Renderer, h Handle, e Element) error {
	q, err := as[*Quote](e)
	if err != nil {
		return err
	}
	h.Set(quoteProps(r, q))
	return nil
}

func quoteProps(r *Renderer, q *Quote) Props {
	flow := r.Provider().Flow(Props{})
	if len(q.Inlines) == 0 && q.Text != "" {
		r.RenderInline(flow, &Text{RawText: q.Text, Text: q.Text})
	}
	renderInlines(r, flow, q.Inlines)
	return Props{Text: q.Text, Children: []Handle{flow}}
}
