// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// The conversion service depends on these interfaces, and the detection,
// parsing and output packages implement them.
//
// # Required Interfaces
//
//   - EncodingProber: Resolves a document's encoding from its prefix
//   - DialectSniffer: Decides catalog vs generic XML from a loose prefix scan
//   - TreeParser: Strictly parses a document into a NormalizedTree
//   - Flattener: Turns product-like elements into flat rows
//   - TableWriter: Emits a Table as CSV
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - CatalogExtractor: Produces catalog-specific output. Without it, catalog
//     documents are parsed and validated but nothing is written.
//
// # Import Rules
//
//   - Can Import: domain package, the zap logger
//   - Cannot Import: Any adapter or detection package
package driven
