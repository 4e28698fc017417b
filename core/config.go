package core

import (
	"fmt"
	"strings"
)

type NormalizerConfig struct {
	DefaultLanguage string `koanf:"default_language" mapstructure:"default_language"`
	// LowercaseLanguage also lowercases the language field. The observed
	// deployments disagree on this, so it is an explicit flag.
	LowercaseLanguage bool `koanf:"lowercase_language" mapstructure:"lowercase_language"`
}

type Config struct {
	ServiceName string           `koanf:"service_name" mapstructure:"service_name"`
	SheetName   string           `koanf:"sheet_name" mapstructure:"sheet_name"`
	Endpoint    string           `koanf:"endpoint" mapstructure:"endpoint"`
	Columns     map[string]int   `koanf:"columns" mapstructure:"columns"`
	Normalizer  NormalizerConfig `koanf:"normalizer" mapstructure:"normalizer"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "leadrelay",
		SheetName:   "Form Responses 1",
		Columns:     FormResponsesLayout().toConfigMap(),
		Normalizer: NormalizerConfig{
			DefaultLanguage: "en",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	for name, position := range c.Columns {
		if position < 0 {
			return fmt.Errorf("core: column %q has negative position %d", name, position)
		}
	}
	return nil
}

// Mapping converts the configured column table into a ColumnMapping.
func (c Config) Mapping() ColumnMapping {
	if len(c.Columns) == 0 {
		return ColumnMapping{}
	}
	mapping := make(ColumnMapping, len(c.Columns))
	for name, position := range c.Columns {
		mapping[Field(strings.TrimSpace(name))] = position
	}
	return mapping
}

func (m ColumnMapping) toConfigMap() map[string]int {
	out := make(map[string]int, len(m))
	for field, position := range m {
		out[string(field)] = position
	}
	return out
}
