// Package domain defines the core entities of the catalog conversion pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ResolvedEncoding: The encoding chosen for a document, with its prolog
//   - DialectVerdict: Whether a document looks like a BMEcat catalog
//   - NormalizedTree: A parsed document with namespace-free tags
//   - Table: Flat rows plus their sorted header
//   - Result: The outcome of converting one document
//
// All entities are derived, read-only artifacts of a single document
// conversion. None of them is mutated after construction.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
