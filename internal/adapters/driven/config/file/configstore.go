package file

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "bmeconv.toml"

// Configuration keys.
const (
	KeyOutputDir        = "output_dir"
	KeyLogToFile        = "log_to_file"
	KeyLogLevel         = "log_level"
	KeyDebug            = "debug"
	KeyFallbackEncoding = "fallback_encoding"
	KeyProductTags      = "product_tags"
)

// ConfigStore is a read-only view of a TOML configuration file.
// A missing file is an empty configuration.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore loads the TOML file at path.
// If path is empty, defaults to bmeconv.toml in the working directory.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		path = DefaultFileName
	}

	s := &ConfigStore{
		filePath: path,
		data:     make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}

	b, ok := val.(bool)
	if !ok {
		return false
	}
	return b
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}

	// TOML arrays are parsed as []any
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file - defaults apply
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	// Flatten nested maps into dot-notation keys for easier access
	s.data = flattenMap(loaded, "")
	return nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Settings overlays the configured values on domain.DefaultSettings.
func Settings(store driven.ConfigStore) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	if v := store.GetString(KeyOutputDir); v != "" {
		settings.OutputDir = v
	}
	if _, ok := store.Get(KeyLogToFile); ok {
		settings.LogToFile = store.GetBool(KeyLogToFile)
	}
	if v := store.GetString(KeyLogLevel); v != "" {
		level := domain.LogLevel(v)
		if !level.IsValid() {
			return settings, fmt.Errorf("%w: %s = %q", domain.ErrInvalidInput, KeyLogLevel, v)
		}
		settings.LogLevel = level
	}
	if store.GetBool(KeyDebug) {
		settings.LogLevel = domain.LogLevelDebug
	}
	settings.FallbackEncoding = store.GetString(KeyFallbackEncoding)
	if tags := store.GetStringSlice(KeyProductTags); len(tags) > 0 {
		settings.ProductTags = tags
	}
	return settings, nil
}
