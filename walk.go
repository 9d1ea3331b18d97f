package mdview

// Walk visits e and everything nested in it depth-first: paragraph and quote
// inlines, list items, item inlines and children, and the inlines of table
// cells. Returning false from fn skips the element's descendants.
func Walk(e Element, fn func(Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Paragraph:
		walkAll(n.Inlines, fn)
	case *Quote:
		walkAll(n.Inlines, fn)
	case *List:
		for _, item := range n.Items {
			Walk(item, fn)
		}
	case *ListItem:
		walkAll(n.Inlines, fn)
		for _, child := range n.Children {
			Walk(child, fn)
		}
	case *TaskList:
		for _, item := range n.Items {
			Walk(item, fn)
		}
	case *TaskListItem:
		walkAll(n.Inlines, fn)
		for _, child := range n.Children {
			Walk(child, fn)
		}
	case *Table:
		for _, cell := range n.Headers {
			walkAll(ParseCellMarkup(cell), fn)
		}
		for _, row := range n.Rows {
			for _, cell := range row {
				walkAll(ParseCellMarkup(cell), fn)
			}
		}
	}
}

func walkAll(elems []Element, fn func(Element) bool) {
	for _, e := range elems {
		Walk(e, fn)
	}
}

// Links returns every link in elems in document order.
func Links(elems []Element) []*Link {
	var links []*Link
	for _, e := range elems {
		Walk(e, func(e Element) bool {
			if l, ok := e.(*Link); ok {
				links = append(links, l)
			}
			return true
		})
	}
	return links
}

// ImageSources returns the distinct image URLs referenced by elems in
// document order.
func ImageSources(elems []Element) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, e := range elems {
		Walk(e, func(e Element) bool {
			if img, ok := e.(*Image); ok && img.Source != "" && !seen[img.Source] {
				seen[img.Source] = true
				urls = append(urls, img.Source)
			}
			return true
		})
	}
	return urls
}
