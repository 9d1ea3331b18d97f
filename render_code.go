package mdview

// CodeBlockCapability renders fenced and indented code.
type CodeBlockCapability struct{}

func (CodeBlockCapability) Render(r *Renderer, e Element) (Handle, error) {
	c, err := as[*CodeBlock](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualCode, Props{Text: c.Code, Language: c.Language}), nil
}

func (CodeBlockCapability) Update(r *Renderer, h Handle, e Element) error {
	c, err := as[*CodeBlock](e)
	if err != nil {
		return err
	}
	h.Set(Props{Text: c.Code, Language: c.Language})
	return nil
}

// CodeInlineCapability renders code spans.
type CodeInlineCapability struct{}

func (CodeInlineCapability) Render(r *Renderer, e Element) (Handle, error) {
	c, err := as[*CodeInline](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualCodeInline, Props{Text: c.Code}), nil
}

// MathBlockCapability renders display math.
type MathBlockCapability struct{}

func (MathBlockCapability) Render(r *Renderer, e Element) (Handle, error) {
	m, err := as[*MathBlock](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualMath, Props{Text: m.Content}), nil
}

// MathInlineCapability renders inline math.
type MathInlineCapability struct{}

func (MathInlineCapability) Render(r *Renderer, e Element) (Handle, error) {
	m, err := as[*MathInline](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualMathInline, Props{Text: m.Content}), nil
}

// RuleCapability renders thematic breaks.
type RuleCapability struct{}

func (RuleCapability) Render(r *Renderer, e Element) (Handle, error) {
	if _, err := as[*HorizontalRule](e); err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualRule, Props{}), nil
}
