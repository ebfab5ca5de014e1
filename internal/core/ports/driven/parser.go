package driven

import (
	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

// TreeParser parses a whole document into a namespace-free tree.
type TreeParser interface {
	// Parse returns domain.ErrIO or an error matching domain.ErrMalformedXML.
	Parse(path string, enc domain.ResolvedEncoding, log *zap.Logger) (*domain.NormalizedTree, error)
}

// Flattener converts product-like elements of a tree into rows.
type Flattener interface {
	// Flatten returns domain.ErrNoMatchingElements when nothing matched.
	Flatten(tree *domain.NormalizedTree) (domain.Table, error)
}
