package synthesis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seergraph/seer-go/internal/bizgraph"
)

// Config tunes a synthesis run. Every field has a working default so a
// missing config file is not an error.
type Config struct {
	// DefaultPersona is assigned to journeys when the facts carry none.
	DefaultPersona string `yaml:"defaultPersona"`

	// LayoutWidth is the total horizontal layout width.
	LayoutWidth float64 `yaml:"layoutWidth"`

	// EntryMarkers are extra name substrings treated as journey entry
	// points.
	EntryMarkers []string `yaml:"entryMarkers"`

	// Export sets default export options.
	Export ExportConfig `yaml:"export"`

	// Provenance is filled by the CLI, not the config file.
	Provenance bizgraph.Provenance `yaml:"-"`
}

// ExportConfig sets default include flags for exports.
type ExportConfig struct {
	Format           string `yaml:"format"`
	IncludeMetadata  *bool  `yaml:"includeMetadata"`
	IncludePositions *bool  `yaml:"includePositions"`
	IncludeMetrics   *bool  `yaml:"includeMetrics"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultPersona: "user",
		LayoutWidth:    1200,
		Export:         ExportConfig{Format: "json"},
	}
}

// LoadConfig reads a YAML config file, falling back to defaults for absent
// files and absent fields.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.DefaultPersona == "" {
		cfg.DefaultPersona = "user"
	}
	if cfg.LayoutWidth <= 0 {
		cfg.LayoutWidth = 1200
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = "json"
	}

	return cfg, nil
}
