package driven

import (
	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

// EncodingProber resolves the encoding of the document at path.
type EncodingProber interface {
	// Probe tries each candidate encoding in priority order against a bounded
	// prefix and returns the first that decodes, overridden by a declared
	// prolog encoding when present.
	// Returns domain.ErrIO or domain.ErrEncodingExhausted.
	Probe(path string, log *zap.Logger) (domain.ResolvedEncoding, error)
}

// DialectSniffer scans a bounded prefix for doctype and catalog markers.
type DialectSniffer interface {
	// Sniff never parses structurally, so it tolerates malformed markup.
	// Returns domain.ErrIO only.
	Sniff(path string, enc domain.ResolvedEncoding, log *zap.Logger) (domain.DialectVerdict, error)
}
