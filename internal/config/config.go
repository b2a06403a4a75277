// Package config loads mdstrip settings from .mdstriprc.yaml or .mdstriprc.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/output"
	"github.com/leonardomso/mdstrip/internal/scanner"
)

// DefaultConfigFileName is the default configuration file name.
const DefaultConfigFileName = ".mdstriprc.yaml"

// FileNames lists the config file names looked up in each directory, in order.
var FileNames = []string{DefaultConfigFileName, ".mdstriprc.yml", ".mdstriprc.toml"}

// ErrUnknownFormat is returned for config files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown config file format")

// Config represents the complete configuration structure.
type Config struct {
	Types   []string      `yaml:"types" toml:"types"`
	Scan    ScanConfig    `yaml:"scan" toml:"scan"`
	Convert ConvertConfig `yaml:"convert" toml:"convert"`
	Write   WriteConfig   `yaml:"write" toml:"write"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Ignore  IgnoreConfig  `yaml:"ignore" toml:"ignore"`

	// path is the file the config was read from, empty for defaults.
	path string
}

// ScanConfig holds file discovery filters.
type ScanConfig struct {
	Include []string `yaml:"include" toml:"include"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// ConvertConfig holds conversion settings.
type ConvertConfig struct {
	// Mode is one of plain, urls, extract.
	Mode        string `yaml:"mode" toml:"mode"`
	Concurrency int    `yaml:"concurrency" toml:"concurrency"`
}

// WriteConfig controls where converted text is written.
type WriteConfig struct {
	// Suffix replaces the source extension, e.g. ".txt".
	Suffix string `yaml:"suffix" toml:"suffix"`
	// OutDir mirrors the source tree into another directory.
	OutDir string `yaml:"out_dir" toml:"out_dir"`
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Format    string `yaml:"format" toml:"format"`
	ShowStats bool   `yaml:"show_stats" toml:"show_stats"`
}

// IgnoreConfig holds rules for dropping extracted links.
type IgnoreConfig struct {
	// Domains to ignore (automatically includes subdomains).
	Domains []string `yaml:"domains" toml:"domains"`

	// Patterns are glob patterns for URL matching.
	Patterns []string `yaml:"patterns" toml:"patterns"`

	// Regex are regular expression patterns for URL matching.
	Regex []string `yaml:"regex" toml:"regex"`
}

// Load reads configuration from the current directory or its parents.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return FindAndLoad(wd)
}

// LoadFrom reads configuration from a specific path. The format is chosen
// by extension. A missing file yields an empty config, not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.path = path
	return cfg, nil
}

// FindAndLoad searches for a config file starting from the given directory
// and walking up to parent directories until it finds one or reaches root.
func FindAndLoad(startDir string) (*Config, error) {
	dir := startDir

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return LoadFrom(candidate)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// Validate checks values that the CLI would otherwise reject late.
func (c *Config) Validate() error {
	if c.Convert.Mode != "" {
		if _, err := convert.ParseMode(c.Convert.Mode); err != nil {
			return fmt.Errorf("convert.mode: %w", err)
		}
	}
	if c.Convert.Concurrency < 0 {
		return fmt.Errorf("convert.concurrency: must not be negative, got %d", c.Convert.Concurrency)
	}
	if c.Output.Format != "" && !output.IsValidFormat(c.Output.Format) {
		return fmt.Errorf("output.format: invalid format %q; valid formats: %s",
			c.Output.Format, strings.Join(output.ValidFormats(), ", "))
	}
	if c.HasTypes() {
		if _, err := scanner.ExtensionsForTypes(c.Types); err != nil {
			return fmt.Errorf("types: %w", err)
		}
	}
	if c.Write.Suffix != "" && !strings.HasPrefix(c.Write.Suffix, ".") {
		return fmt.Errorf("write.suffix: must start with a dot, got %q", c.Write.Suffix)
	}
	return nil
}

// HasTypes returns true if document types are configured.
func (c *Config) HasTypes() bool {
	return len(c.Types) > 0
}

// HasIgnoreRules returns true if any ignore rule is configured.
func (c *Config) HasIgnoreRules() bool {
	return len(c.Ignore.Domains) > 0 ||
		len(c.Ignore.Patterns) > 0 ||
		len(c.Ignore.Regex) > 0
}

// IsEmpty returns true if nothing at all is configured.
func (c *Config) IsEmpty() bool {
	return !c.HasTypes() &&
		!c.HasIgnoreRules() &&
		len(c.Scan.Include) == 0 &&
		len(c.Scan.Exclude) == 0 &&
		c.Convert == (ConvertConfig{}) &&
		c.Write == (WriteConfig{}) &&
		c.Output == (OutputConfig{})
}

// Merge combines another config's ignore rules into this one (additive).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	c.Ignore.Domains = append(c.Ignore.Domains, other.Ignore.Domains...)
	c.Ignore.Patterns = append(c.Ignore.Patterns, other.Ignore.Patterns...)
	c.Ignore.Regex = append(c.Ignore.Regex, other.Ignore.Regex...)
}
