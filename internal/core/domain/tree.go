package domain

// Attr is an element attribute with a namespace-free name.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of a NormalizedTree. Tags never carry a namespace prefix.
type Element struct {
	// Tag is the local element name.
	Tag string

	// Text is the character data before the first child element, untrimmed.
	Text string

	// Attrs holds the element's attributes in document order.
	Attrs []Attr

	// Children are the child elements in document order.
	Children []*Element
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first child with the given tag.
func (e *Element) Child(tag string) (*Element, bool) {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c, true
		}
	}
	return nil, false
}

// Descendants calls fn for every element below e in document order,
// excluding e itself. Returning false from fn skips that element's subtree.
func (e *Element) Descendants(fn func(*Element) bool) {
	for _, c := range e.Children {
		if fn(c) {
			c.Descendants(fn)
		}
	}
}

// NormalizedTree is a parsed document whose tags have been stripped of
// namespace qualifiers.
type NormalizedTree struct {
	// Root is the document element.
	Root *Element

	// Namespace is the last namespace URI seen during normalisation.
	// Documents mixing namespaces only retain the last one here.
	Namespace string

	// Namespaces lists every distinct URI in first-seen order, for diagnostics.
	Namespaces []string
}
