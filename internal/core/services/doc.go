// Package services implements the driving port interfaces.
// Services contain the core conversion logic and orchestrate
// calls to driven ports (adapters).
//
// Converter runs one document at a time through the states
// start, encoding_resolved, dialect_known, then catalog_parsed or
// generic_flattened, and finally done or failed. DirWatcher feeds it
// files dropped into a directory.
package services
