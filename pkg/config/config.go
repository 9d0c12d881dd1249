package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/textilize/pkg/errors"
)

// Config is the effective textilize configuration
type Config struct {
	Pipeline Pipeline `koanf:"pipeline" toml:"pipeline" yaml:"pipeline"`
	Rules    Rules    `koanf:"rules" toml:"rules" yaml:"rules"`
	Markers  Markers  `koanf:"markers" toml:"markers" yaml:"markers"`
	Logging  Logging  `koanf:"logging" toml:"logging" yaml:"logging"`
}

// Pipeline controls how each unit is processed
type Pipeline struct {
	RootWrap          string `koanf:"root_wrap" toml:"root_wrap" yaml:"root_wrap"`
	IgnoreSystemRules bool   `koanf:"ignore_system_rules" toml:"ignore_system_rules" yaml:"ignore_system_rules"`
	InputEncoding     string `koanf:"input_encoding" toml:"input_encoding" yaml:"input_encoding"`
	OutputExtension   string `koanf:"output_extension" toml:"output_extension" yaml:"output_extension"`
	Jobs              int    `koanf:"jobs" toml:"jobs" yaml:"jobs"`
}

// Rules controls where rule files are looked up
type Rules struct {
	PreprocessFile  string   `koanf:"preprocess_file" toml:"preprocess_file" yaml:"preprocess_file"`
	PostprocessFile string   `koanf:"postprocess_file" toml:"postprocess_file" yaml:"postprocess_file"`
	Root            string   `koanf:"root" toml:"root" yaml:"root"`
	RootMarkers     []string `koanf:"root_markers" toml:"root_markers" yaml:"root_markers"`
	RequireRoot     bool     `koanf:"require_root" toml:"require_root" yaml:"require_root"`
}

// Markers names the line marker element inserted by the preprocessor
type Markers struct {
	Element   string `koanf:"element" toml:"element" yaml:"element"`
	Attribute string `koanf:"attribute" toml:"attribute" yaml:"attribute"`
}

// Logging configures the optional rotating log file
type Logging struct {
	ToFile     bool   `koanf:"to_file" toml:"to_file" yaml:"to_file"`
	File       string `koanf:"file" toml:"file" yaml:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups" toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days" toml:"max_age_days" yaml:"max_age_days"`
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	switch {
	case c.Pipeline.Jobs < 0:
		return errors.Newf(errors.ErrConfigParse, "pipeline.jobs must not be negative, got %d", c.Pipeline.Jobs)
	case strings.TrimSpace(c.Pipeline.OutputExtension) == "":
		return errors.New(errors.ErrConfigParse, "pipeline.output_extension must not be empty")
	case strings.TrimSpace(c.Rules.PreprocessFile) == "":
		return errors.New(errors.ErrConfigParse, "rules.preprocess_file must not be empty")
	case strings.TrimSpace(c.Rules.PostprocessFile) == "":
		return errors.New(errors.ErrConfigParse, "rules.postprocess_file must not be empty")
	case c.Rules.PreprocessFile == c.Rules.PostprocessFile:
		return errors.Newf(errors.ErrConfigParse, "rules.preprocess_file and rules.postprocess_file are both %q", c.Rules.PreprocessFile)
	case strings.TrimSpace(c.Markers.Element) == "" || strings.TrimSpace(c.Markers.Attribute) == "":
		return errors.New(errors.ErrConfigParse, "markers.element and markers.attribute must not be empty")
	}
	return nil
}

// TOML renders the configuration as a TOML document
func (c *Config) TOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return data, nil
}
