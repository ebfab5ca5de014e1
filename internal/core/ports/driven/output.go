package driven

import (
	"context"

	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

// TableWriter writes a table to a file.
type TableWriter interface {
	// Write replaces the file at path with the table's CSV rendering.
	Write(path string, table domain.Table) error
}

// CatalogExtractor produces catalog-specific output from a confirmed catalog.
// It is an external collaborator: its errors are logged by the caller and
// never abort the process.
type CatalogExtractor interface {
	// Extract writes output for the tree under outputDir using baseName
	// and returns the files written.
	Extract(ctx context.Context, tree *domain.NormalizedTree, outputDir, baseName string, log *zap.Logger) ([]string, error)
}
