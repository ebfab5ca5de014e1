// Package flatten turns product-like elements of an arbitrary XML tree into
// flat rows for CSV output. It is the fallback for documents that are not
// BMEcat catalogs.
package flatten

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driven"
)

// Ensure Flattener implements the interface.
var _ driven.Flattener = (*Flattener)(nil)

// DefaultProductTags are the element names treated as products.
var DefaultProductTags = []string{"item", "SHOPITEM", "PRODUCT"}

// Flattener builds one row per product-like element.
type Flattener struct {
	tags map[string]struct{}
}

// New creates a flattener matching the given tags, case-sensitively.
// With no tags it uses DefaultProductTags.
func New(tags ...string) *Flattener {
	if len(tags) == 0 {
		tags = DefaultProductTags
	}
	return &Flattener{tags: lo.SliceToMap(tags, func(t string) (string, struct{}) {
		return t, struct{}{}
	})}
}

// Tags returns the matched tags in sorted order.
func (f *Flattener) Tags() []string {
	tags := lo.Keys(f.tags)
	sort.Strings(tags)
	return tags
}

// Flatten visits every descendant of the root in document order. Each
// matching element yields a row of its immediate children's trimmed text.
// Matches nested inside other matches produce their own rows.
func (f *Flattener) Flatten(tree *domain.NormalizedTree) (domain.Table, error) {
	if tree == nil || tree.Root == nil {
		return domain.Table{}, domain.ErrInvalidInput
	}

	var rows []domain.FlatRow
	tree.Root.Descendants(func(e *domain.Element) bool {
		if _, ok := f.tags[e.Tag]; ok {
			rows = append(rows, Row(e))
		}
		return true
	})
	if len(rows) == 0 {
		return domain.Table{}, domain.ErrNoMatchingElements
	}

	return domain.Table{Header: Header(rows), Rows: rows}, nil
}

// Row flattens the immediate children of e. A repeated child tag keeps
// the last value.
func Row(e *domain.Element) domain.FlatRow {
	row := make(domain.FlatRow, len(e.Children))
	for _, c := range e.Children {
		row[c.Tag] = strings.TrimSpace(c.Text)
	}
	return row
}

// Header returns the sorted union of the rows' field names.
func Header(rows []domain.FlatRow) []string {
	fields := lo.Uniq(lo.FlatMap(rows, func(r domain.FlatRow, _ int) []string {
		return lo.Keys(map[string]string(r))
	}))
	sort.Strings(fields)
	return fields
}
