package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (JLENS_*)
// 2. Config file (.jlens.yml in the project root)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".jlens")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.rootDir)

	// Enable environment variable overrides
	v.SetEnvPrefix("JLENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("parser.max_file_size")
	v.BindEnv("parser.workers")

	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if os.IsNotExist(err) {
				// AddConfigPath on a missing root surfaces as a plain
				// not-exist error rather than ConfigFileNotFoundError.
				return defaultsFromViper(v)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshalAndValidate(v)
}

func defaultsFromViper(v *viper.Viper) (*Config, error) {
	return unmarshalAndValidate(v)
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults configures viper with default values. Viper lowercases map
// keys, so list-of-struct tables (layers, markers) are set wholesale.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("layers", layerDefaults(defaults.Layers))

	v.SetDefault("parser.max_file_size", defaults.Parser.MaxFileSize)
	v.SetDefault("parser.workers", defaults.Parser.Workers)

	v.SetDefault("markers.endpoints", endpointDefaults(defaults.Markers.Endpoints))
	v.SetDefault("markers.batch", batchDefaults(defaults.Markers.Batch))
	v.SetDefault("markers.batch_name_patterns", defaults.Markers.BatchNamePatterns)
	v.SetDefault("markers.collections", defaults.Markers.Collections)
}

func layerDefaults(rules []LayerRule) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rules))
	for _, r := range rules {
		out = append(out, map[string]interface{}{"keyword": r.Keyword, "layer": r.Layer})
	}
	return out
}

func endpointDefaults(markers []EndpointMarker) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(markers))
	for _, m := range markers {
		out = append(out, map[string]interface{}{
			"name":         m.Name,
			"verb":         m.Verb,
			"path_bearing": m.PathBearing,
			"verb_bearing": m.VerbBearing,
		})
	}
	return out
}

func batchDefaults(markers []BatchMarker) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(markers))
	for _, m := range markers {
		out = append(out, map[string]interface{}{"name": m.Name, "trigger_args": m.TriggerArgs})
	}
	return out
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(filepath.Clean(rootDir)).Load()
}
