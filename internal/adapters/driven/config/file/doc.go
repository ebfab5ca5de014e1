// Package file provides file-based implementations of driven port interfaces.
// These adapters read data from the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration
package file
