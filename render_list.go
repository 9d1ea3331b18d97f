package mdview

import "strconv"

// ListCapability renders ordered and unordered lists. Items with children
// render a nested list beneath their text, dispatched through the renderer
// like any other list.
type ListCapability struct{}

func (ListCapability) Render(r *Renderer, e Element) (Handle, error) {
	l, err := as[*List](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualList, listProps(r, l)), nil
}

func (ListCapability) Update(r *Renderer, h Handle, e Element) error {
	l, err := as[*List](e)
	if err != nil {
		return err
	}
	h.Set(listProps(r, l))
	return nil
}

func listProps(r *Renderer, l *List) Props {
	items := make([]Handle, 0, len(l.Items))
	for i, item := range l.Items {
		children := []Handle{itemFlow(r, item.Inlines, item.Text)}
		if len(item.Children) > 0 {
			sub := &List{RawText: item.RawText, IsOrdered: l.IsOrdered, Start: 1, Items: item.Children}
			if h := r.RenderElement(sub); h != nil {
				children = append(children, h)
			}
		}
		items = append(items, r.Provider().Create(VisualListItem, Props{
			Text:     item.Text,
			Marker:   listMarker(l, i, item.IndentationLevel),
			Level:    item.IndentationLevel,
			Ordered:  l.IsOrdered,
			Children: children,
		}))
	}
	return Props{Ordered: l.IsOrdered, Level: listLevel(l), Children: items}
}

func listLevel(l *List) int {
	if len(l.Items) == 0 {
		return 0
	}
	return l.Items[0].IndentationLevel
}

func listMarker(l *List, i, level int) string {
	if l.IsOrdered {
		start := l.Start
		if start < 1 {
			start = 1
		}
		return strconv.Itoa(start+i) + "."
	}
	if level == 0 {
		return "•"
	}
	return "◦"
}

// TaskListCapability renders task lists with checkboxes.
type TaskListCapability struct{}

func (TaskListCapability) Render(r *Renderer, e Element) (Handle, error) {
	l, err := as[*TaskList](e)
	if err != nil {
		return nil, err
	}
	return r.Provider().Create(VisualList, taskListProps(r, l)), nil
}

func (TaskListCapability) Update(r *Renderer, h Handle, e Element) error {
	l, err := as[*TaskList](e)
	if err != nil {
		return err
	}
	h.Set(taskListProps(r, l))
	return nil
}

func taskListProps(r *Renderer, l *TaskList) Props {
	items := make([]Handle, 0, len(l.Items))
	level := 0
	for i, item := range l.Items {
		if i == 0 {
			level = item.Level
		}
		children := []Handle{itemFlow(r, item.Inlines, item.Text)}
		if len(item.Children) > 0 {
			sub := &TaskList{RawText: item.RawText, Items: item.Children}
			if h := r.RenderElement(sub); h != nil {
				children = append(children, h)
			}
		}
		items = append(items, r.Provider().Create(VisualListItem, Props{
			Text:     item.Text,
			Level:    item.Level,
			Task:     true,
			Checked:  item.IsChecked,
			Children: children,
		}))
	}
	return Props{Task: true, Level: level, Children: items}
}

func itemFlow(r *Renderer, inlines []Element, text string) Flow {
	flow := r.Provider().Flow(Props{})
	if len(inlines) == 0 && text != "" {
		r.RenderInline(flow, &Text{RawText: text, Text: text})
		return flow
	}
	renderInlines(r, flow, inlines)
	return flow
}
