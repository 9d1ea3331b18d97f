package json

import (
	"fmt"

	"github.com/fwojciec/mdview"
)

// elementDTO is the JSON representation of an Element with a type
// discriminator.
type elementDTO struct {
	Type     string       `json:"type"`
	Raw      string       `json:"raw,omitempty"`
	Text     string       `json:"text,omitempty"`
	Level    int          `json:"level,omitempty"`
	Code     string       `json:"code,omitempty"`
	Language string       `json:"language,omitempty"`
	URL      string       `json:"url,omitempty"`
	Alt      string       `json:"alt,omitempty"`
	Title    string       `json:"title,omitempty"`
	Strong   bool         `json:"strong,omitempty"`
	Italic   bool         `json:"italic,omitempty"`
	Ordered  bool         `json:"ordered,omitempty"`
	Start    int          `json:"start,omitempty"`
	Content  string       `json:"content,omitempty"`
	Inlines  []elementDTO `json:"inlines,omitempty"`
	Items    []itemDTO    `json:"items,omitempty"`
	Headers  []string     `json:"headers,omitempty"`
	Rows     [][]string   `json:"rows,omitempty"`
}

// itemDTO is a list or task list item.
type itemDTO struct {
	Raw      string       `json:"raw,omitempty"`
	Text     string       `json:"text,omitempty"`
	Level    int          `json:"level,omitempty"`
	Checked  bool         `json:"checked,omitempty"`
	Inlines  []elementDTO `json:"inlines,omitempty"`
	Children []itemDTO    `json:"children,omitempty"`
}

func marshalElements(elems []mdview.Element) ([]elementDTO, error) {
	if len(elems) == 0 {
		return nil, nil
	}
	result := make([]elementDTO, len(elems))
	for i, e := range elems {
		dto, err := marshalElement(e)
		if err != nil {
			return nil, fmt.Errorf("inline %d: %w", i, err)
		}
		result[i] = dto
	}
	return result, nil
}

func marshalElement(e mdview.Element) (elementDTO, error) {
	if e == nil {
		return elementDTO{}, fmt.Errorf("nil element")
	}
	dto := elementDTO{Type: e.Kind().String(), Raw: e.Raw()}
	var err error
	switch v := e.(type) {
	case *mdview.Text:
		dto.Text = v.Text
	case *mdview.Heading:
		dto.Text, dto.Level = v.Text, int(v.Level)
	case *mdview.Paragraph:
		dto.Inlines, err = marshalElements(v.Inlines)
	case *mdview.CodeBlock:
		dto.Code, dto.Language = v.Code, v.Language
	case *mdview.CodeInline:
		dto.Code = v.Code
	case *mdview.Image:
		dto.URL, dto.Alt, dto.Title = v.Source, v.Alt, v.Title
	case *mdview.Link:
		dto.URL, dto.Text, dto.Title = v.URL, v.Text, v.Title
	case *mdview.Emphasis:
		dto.Text, dto.Strong, dto.Italic = v.Text, v.IsStrong, v.IsItalic
	case *mdview.List:
		dto.Ordered, dto.Start = v.IsOrdered, v.Start
		dto.Items, err = marshalListItems(v.Items)
	case *mdview.TaskList:
		dto.Items, err = marshalTaskItems(v.Items)
	case *mdview.Quote:
		dto.Text = v.Text
		dto.Inlines, err = marshalElements(v.Inlines)
	case *mdview.Table:
		dto.Headers, dto.Rows = v.Headers, v.Rows
	case *mdview.HorizontalRule:
	case *mdview.MathBlock:
		dto.Content = v.Content
	case *mdview.MathInline:
		dto.Content = v.Content
	default:
		return elementDTO{}, fmt.Errorf("unknown element type: %T", e)
	}
	if err != nil {
		return elementDTO{}, err
	}
	return dto, nil
}

func marshalListItems(items []*mdview.ListItem) ([]itemDTO, error) {
	if len(items) == 0 {
		return nil, nil
	}
	result := make([]itemDTO, len(items))
	for i, it := range items {
		inlines, err := marshalElements(it.Inlines)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		children, err := marshalListItems(it.Children)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		result[i] = itemDTO{Raw: it.RawText, Text: it.Text, Level: it.IndentationLevel, Inlines: inlines, Children: children}
	}
	return result, nil
}

func marshalTaskItems(items []*mdview.TaskListItem) ([]itemDTO, error) {
	if len(items) == 0 {
		return nil, nil
	}
	result := make([]itemDTO, len(items))
	for i, it := range items {
		inlines, err := marshalElements(it.Inlines)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		children, err := marshalTaskItems(it.Children)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		result[i] = itemDTO{Raw: it.RawText, Text: it.Text, Level: it.Level, Checked: it.IsChecked, Inlines: inlines, Children: children}
	}
	return result, nil
}

func unmarshalElements(dtos []elementDTO) ([]mdview.Element, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	result := make([]mdview.Element, len(dtos))
	for i, dto := range dtos {
		e, err := unmarshalElement(dto)
		if err != nil {
			return nil, fmt.Errorf("inline %d: %w", i, err)
		}
		result[i] = e
	}
	return result, nil
}

func unmarshalElement(dto elementDTO) (mdview.Element, error) {
	kind, ok := mdview.ParseKind(dto.Type)
	if !ok {
		return nil, fmt.Errorf("unknown element type: %q", dto.Type)
	}
	switch kind {
	case mdview.KindText:
		return &mdview.Text{RawText: dto.Raw, Text: dto.Text}, nil
	case mdview.KindHeading:
		return &mdview.Heading{RawText: dto.Raw, Level: mdview.HeadingLevel(dto.Level), Text: dto.Text}, nil
	case mdview.KindParagraph:
		inlines, err := unmarshalElements(dto.Inlines)
		if err != nil {
			return nil, err
		}
		return &mdview.Paragraph{RawText: dto.Raw, Inlines: inlines}, nil
	case mdview.KindCodeBlock:
		return &mdview.CodeBlock{RawText: dto.Raw, Code: dto.Code, Language: dto.Language}, nil
	case mdview.KindCodeInline:
		return &mdview.CodeInline{RawText: dto.Raw, Code: dto.Code}, nil
	case mdview.KindImage:
		return &mdview.Image{RawText: dto.Raw, Source: dto.URL, Alt: dto.Alt, Title: dto.Title}, nil
	case mdview.KindLink:
		return &mdview.Link{RawText: dto.Raw, URL: dto.URL, Text: dto.Text, Title: dto.Title}, nil
	case mdview.KindEmphasis:
		return &mdview.Emphasis{RawText: dto.Raw, Text: dto.Text, IsStrong: dto.Strong, IsItalic: dto.Italic}, nil
	case mdview.KindList:
		items, err := unmarshalListItems(dto.Items)
		if err != nil {
			return nil, err
		}
		return &mdview.List{RawText: dto.Raw, IsOrdered: dto.Ordered, Start: dto.Start, Items: items}, nil
	case mdview.KindTaskList:
		items, err := unmarshalTaskItems(dto.Items)
		if err != nil {
			return nil, err
		}
		return &mdview.TaskList{RawText: dto.Raw, Items: items}, nil
	case mdview.KindQuote:
		inlines, err := unmarshalElements(dto.Inlines)
		if err != nil {
			return nil, err
		}
		return &mdview.Quote{RawText: dto.Raw, Text: dto.Text, Inlines: inlines}, nil
	case mdview.KindTable:
		return &mdview.Table{RawText: dto.Raw, Headers: dto.Headers, Rows: dto.Rows}, nil
	case mdview.KindHorizontalRule:
		return &mdview.HorizontalRule{RawText: dto.Raw}, nil
	case mdview.KindMathBlock:
		return &mdview.MathBlock{RawText: dto.Raw, Content: dto.Content}, nil
	case mdview.KindMathInline:
		return &mdview.MathInline{RawText: dto.Raw, Content: dto.Content}, nil
	default:
		return nil, fmt.Errorf("element type %q cannot appear at this position", dto.Type)
	}
}

func unmarshalListItems(dtos []itemDTO) ([]*mdview.ListItem, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	result := make([]*mdview.ListItem, len(dtos))
	for i, dto := range dtos {
		inlines, err := unmarshalElements(dto.Inlines)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		children, err := unmarshalListItems(dto.Children)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		result[i] = &mdview.ListItem{RawText: dto.Raw, Text: dto.Text, IndentationLevel: dto.Level, Inlines: inlines, Children: children}
	}
	return result, nil
}

func unmarshalTaskItems(dtos []itemDTO) ([]*mdview.TaskListItem, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	result := make([]*mdview.TaskListItem, len(dtos))
	for i, dto := range dtos {
		inlines, err := unmarshalElements(dto.Inlines)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		children, err := unmarshalTaskItems(dto.Children)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		result[i] = &mdview.TaskListItem{RawText: dto.Raw, Text: dto.Text, Level: dto.Level, IsChecked: dto.Checked, Inlines: inlines, Children: children}
	}
	return result, nil
}
