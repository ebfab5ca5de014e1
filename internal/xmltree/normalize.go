package xmltree

import (
	"github.com/beevik/etree"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

// Normalize builds a namespace-free copy of the element tree rooted at root.
// Every tag becomes its local name; namespace URIs are recorded on the tree.
// Namespace declarations are not carried as attributes.
func Normalize(root *etree.Element) *domain.NormalizedTree {
	tree := &domain.NormalizedTree{}
	seen := make(map[string]bool)
	tree.Root = normalizeElement(root, tree, seen)
	return tree
}

func normalizeElement(el *etree.Element, tree *domain.NormalizedTree, seen map[string]bool) *domain.Element {
	if uri := el.NamespaceURI(); uri != "" {
		tree.Namespace = uri
		if !seen[uri] {
			seen[uri] = true
			tree.Namespaces = append(tree.Namespaces, uri)
		}
	}

	out := &domain.Element{
		Tag:  el.Tag,
		Text: el.Text(),
	}
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		out.Attrs = append(out.Attrs, domain.Attr{Name: a.Key, Value: a.Value})
	}

	children := el.ChildElements()
	if len(children) > 0 {
		out.Children = make([]*domain.Element, 0, len(children))
		for _, c := range children {
			out.Children = append(out.Children, normalizeElement(c, tree, seen))
		}
	}
	return out
}
