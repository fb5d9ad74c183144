// =============================================================================
// H2K to HPXML Translator - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Every setting has a
// default, so the translator runs without any configuration file at all;
// a file only overrides what it names, and command-line flags override the
// file.
//
// CONFIGURATION SOURCES (lowest to highest precedence):
//   1. Built-in defaults
//   2. config.yaml (or the file given with --config)
//   3. Command-line flags
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no --config flag is given. Its absence is
// not an error.
const DefaultConfigPath = "config.yaml"

// =============================================================================
// APPLICATION CONFIGURATION STRUCTURE
// =============================================================================

// AppConfig holds the translator's settings.
type AppConfig struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// SchemaPath is the XSD every H2K file is validated against.
	// Default: "schema/h2k.xsd"
	SchemaPath string `yaml:"schema_path"`

	// TemplatePath is the workflow the building arguments are written into.
	// Default: "templates/base.osw"
	TemplatePath string `yaml:"template_path"`

	// ExpectedVersion is the H2K release the extractor was tested against.
	// A different major version is rejected; a different minor version only
	// produces a warning.
	ExpectedVersion VersionConfig `yaml:"expected_version"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// RunDirectory, when set, replaces the template's run_directory.
	RunDirectory string `yaml:"run_directory"`

	// ReportPath, when set, receives an XLSX sheet of every extracted record.
	ReportPath string `yaml:"report_path"`

	// MetricsFile, when set, receives run metrics in the Prometheus text
	// format, for node_exporter's textfile collector.
	MetricsFile string `yaml:"metrics_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log encoding.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `yaml:"log_format"`
}

// VersionConfig is an H2K major.minor release.
type VersionConfig struct {
	Major int `yaml:"major"`
	Minor int `yaml:"minor"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// defaultVersion is the H2K release the extractor was written against.
var defaultVersion = VersionConfig{Major: 11, Minor: 3}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := &AppConfig{ExpectedVersion: defaultVersion}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - path: The configuration file to read.
//   - required: Whether a missing file is an error. It is for a path the
//     user named, and is not for DefaultConfigPath.
//
// RETURNS:
//   - The configuration with defaults applied.
//   - An error if the file cannot be read or parsed, or fails validation.
func Load(path string, required bool) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Minor 0 is a real release, so the version is seeded before decoding
	// rather than filled in afterwards.
	cfg := AppConfig{ExpectedVersion: defaultVersion}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *AppConfig) {
	if cfg.SchemaPath == "" {
		cfg.SchemaPath = "schema/h2k.xsd"
	}
	if cfg.TemplatePath == "" {
		cfg.TemplatePath = "templates/base.osw"
	}
	if cfg.ExpectedVersion.Major == 0 {
		cfg.ExpectedVersion.Major = defaultVersion.Major
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks that every option holds a usable value.
func (c *AppConfig) Validate() error {
	if !contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("log_level %q must be one of %s", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if !contains(logFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("log_format %q must be one of %s", c.LogFormat, strings.Join(logFormats, ", "))
	}
	if c.ExpectedVersion.Major < 1 || c.ExpectedVersion.Minor < 0 {
		return fmt.Errorf("expected_version %d.%d is not a release", c.ExpectedVersion.Major, c.ExpectedVersion.Minor)
	}
	if c.ReportPath != "" && !strings.HasSuffix(strings.ToLower(c.ReportPath), ".xlsx") {
		return fmt.Errorf("report_path %q must end in .xlsx", c.ReportPath)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
