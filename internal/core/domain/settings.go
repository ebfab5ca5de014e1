package domain

import "strings"

// Default settings values.
const (
	DefaultOutputDir = "output"
	DefaultLogLevel  = "info"
)

// LogLevel names a logging threshold.
type LogLevel string

// Available log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// IsValid returns true if the level is recognised.
func (l LogLevel) IsValid() bool {
	switch LogLevel(strings.ToLower(string(l))) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, "warning", LogLevelError:
		return true
	default:
		return false
	}
}

// Settings configures a conversion run.
type Settings struct {
	// OutputDir receives CSV files and per-document logs.
	OutputDir string

	// LogToFile appends each document's log to <OutputDir>/<base>_log.txt.
	LogToFile bool

	// LogLevel is the logging threshold.
	LogLevel LogLevel

	// FallbackEncoding is used when no candidate decodes a document.
	// Empty means such documents fail.
	FallbackEncoding string

	// ProductTags overrides the generic flattener's element names.
	ProductTags []string
}

// DefaultSettings returns the settings used without a config file.
func DefaultSettings() Settings {
	return Settings{
		OutputDir: DefaultOutputDir,
		LogToFile: true,
		LogLevel:  DefaultLogLevel,
	}
}
