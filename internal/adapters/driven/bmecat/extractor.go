package bmecat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driven"
	"github.com/custodia-labs/bmeconv/internal/flatten"
)

// Ensure Extractor implements the interface.
var _ driven.CatalogExtractor = (*Extractor)(nil)

// Element names of the BMEcat structure.
const (
	tagHeader      = "HEADER"
	tagProduct     = "PRODUCT"
	tagArticle     = "ARTICLE"
	tagFeature     = "FEATURE"
	tagFeatureName = "FNAME"
	tagFeatureVal  = "FVALUE"
	tagFeatureUnit = "FUNIT"

	// VersionField is the header column holding the root version attribute.
	VersionField = "BMECAT_VERSION"

	// FeaturePrefix prefixes feature columns in the product table.
	FeaturePrefix = "FEATURE:"

	// multiValueSep joins repeated values of one column.
	multiValueSep = "|"
)

// transactionSections hold the products of a catalog document.
var transactionSections = []string{"T_NEW_CATALOG", "T_UPDATE_PRODUCTS", "T_UPDATE_PRICES"}

// Extractor writes catalog header and product tables.
type Extractor struct {
	writer driven.TableWriter
}

// New creates an extractor writing through w.
func New(w driven.TableWriter) *Extractor {
	return &Extractor{writer: w}
}

// Extract writes <baseName>_header.csv and <baseName>_products.csv under
// outputDir. Either table may be absent; having neither is an error.
func (x *Extractor) Extract(
	_ context.Context,
	tree *domain.NormalizedTree,
	outputDir, baseName string,
	log *zap.Logger,
) ([]string, error) {
	if tree == nil || tree.Root == nil {
		return nil, fmt.Errorf("%w: empty tree", domain.ErrExtraction)
	}

	var outputs []string

	header, ok := Header(tree.Root)
	if ok {
		path := filepath.Join(outputDir, baseName+"_header.csv")
		if err := x.writer.Write(path, header); err != nil {
			return outputs, fmt.Errorf("%w: header: %w", domain.ErrExtraction, err)
		}
		log.Info("Saved file", zap.String("path", path))
		outputs = append(outputs, path)
	} else {
		log.Warn("Catalog has no HEADER")
	}

	products := Products(tree.Root)
	if len(products.Rows) > 0 {
		path := filepath.Join(outputDir, baseName+"_products.csv")
		if err := x.writer.Write(path, products); err != nil {
			return outputs, fmt.Errorf("%w: products: %w", domain.ErrExtraction, err)
		}
		log.Info("Saved file", zap.String("path", path), zap.Int("products", len(products.Rows)))
		outputs = append(outputs, path)
	} else {
		log.Warn("Catalog has no products")
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: no header and no products", domain.ErrExtraction)
	}
	return outputs, nil
}

// Header builds the one-row header table. It reports false if the root
// has no HEADER child.
func Header(root *domain.Element) (domain.Table, bool) {
	h, ok := root.Child(tagHeader)
	if !ok {
		return domain.Table{}, false
	}

	row := make(domain.FlatRow)
	if v, ok := root.Attr("version"); ok {
		row[VersionField] = v
	}
	collectLeaves(h, "", row)
	return domain.Table{Header: flatten.Header([]domain.FlatRow{row}), Rows: []domain.FlatRow{row}}, true
}

// Products builds the product table from the transaction sections.
func Products(root *domain.Element) domain.Table {
	var rows []domain.FlatRow
	for _, section := range root.Children {
		if !lo.Contains(transactionSections, section.Tag) {
			continue
		}
		for _, p := range section.Children {
			if p.Tag == tagProduct || p.Tag == tagArticle {
				rows = append(rows, productRow(p))
			}
		}
	}
	if len(rows) == 0 {
		return domain.Table{}
	}
	return domain.Table{Header: flatten.Header(rows), Rows: rows}
}

func productRow(p *domain.Element) domain.FlatRow {
	row := make(domain.FlatRow)
	for _, a := range p.Attrs {
		row["@"+a.Name] = a.Value
	}
	collectLeaves(p, "", row)
	return row
}

// collectLeaves records every leaf below e under its path relative to e.
// Features are recorded by name instead of path.
func collectLeaves(e *domain.Element, prefix string, row domain.FlatRow) {
	for _, c := range e.Children {
		path := c.Tag
		if prefix != "" {
			path = prefix + "/" + c.Tag
		}

		switch {
		case c.Tag == tagFeature:
			if name, value, ok := feature(c); ok {
				appendValue(row, FeaturePrefix+name, value)
			}
		case len(c.Children) == 0:
			appendValue(row, path, strings.TrimSpace(c.Text))
		default:
			collectLeaves(c, path, row)
		}
	}
}

// feature reads an ETIM feature: repeated FVALUEs are joined, FUNIT is
// appended after a space.
func feature(f *domain.Element) (name, value string, ok bool) {
	var values []string
	var unit string
	for _, c := range f.Children {
		switch c.Tag {
		case tagFeatureName:
			name = strings.TrimSpace(c.Text)
		case tagFeatureVal:
			values = append(values, strings.TrimSpace(c.Text))
		case tagFeatureUnit:
			unit = strings.TrimSpace(c.Text)
		}
	}
	if name == "" {
		return "", "", false
	}
	value = strings.Join(values, multiValueSep)
	if unit != "" {
		value += " " + unit
	}
	return name, value, true
}

func appendValue(row domain.FlatRow, key, value string) {
	if prev, ok := row[key]; ok {
		row[key] = prev + multiValueSep + value
		return
	}
	row[key] = value
}
