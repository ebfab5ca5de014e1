package driving

import (
	"context"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

// ConversionService converts catalog documents to CSV.
type ConversionService interface {
	// Convert runs the full pipeline for one document. Failures are logged
	// and returned in both the result and the error.
	Convert(ctx context.Context, path string) (*domain.Result, error)

	// ConvertAll converts documents one after another. Each runs independently;
	// a failure does not stop the batch, but cancelling ctx does.
	ConvertAll(ctx context.Context, paths []string) ([]*domain.Result, error)

	// Inspect probes and sniffs a document without writing output.
	Inspect(ctx context.Context, path string) (*Inspection, error)
}

// Inspection is the read-only diagnostic view of a document.
type Inspection struct {
	Encoding domain.ResolvedEncoding
	Verdict  domain.DialectVerdict

	// Namespaces is empty when the document did not parse.
	Namespaces []string

	// ParseErr is the strict parser's error, nil if the document is well formed.
	ParseErr error
}

// Watcher converts documents as they appear in a directory.
type Watcher interface {
	// Watch blocks until ctx is cancelled or the watch fails.
	Watch(ctx context.Context, dir string) error
}
