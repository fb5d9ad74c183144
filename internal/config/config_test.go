package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "schema/h2k.xsd", cfg.SchemaPath)
	assert.Equal(t, "templates/base.osw", cfg.TemplatePath)
	assert.Equal(t, VersionConfig{Major: 11, Minor: 3}, cfg.ExpectedVersion)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.ReportPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
template_path: custom.osw
run_directory: /tmp/run
log_level: debug
log_format: json
report_path: out/records.xlsx
expected_version:
  major: 11
  minor: 5
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "custom.osw", cfg.TemplatePath)
	assert.Equal(t, "schema/h2k.xsd", cfg.SchemaPath)
	assert.Equal(t, "/tmp/run", cfg.RunDirectory)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, VersionConfig{Major: 11, Minor: 5}, cfg.ExpectedVersion)
}

func TestLoadDefaultsVersionFieldsIndependently(t *testing.T) {
	cfg, err := Load(writeConfig(t, "expected_version:\n  minor: 5\n"), true)
	require.NoError(t, err)
	assert.Equal(t, VersionConfig{Major: 11, Minor: 5}, cfg.ExpectedVersion)

	cfg, err = Load(writeConfig(t, "expected_version:\n  major: 11\n  minor: 0\n"), true)
	require.NoError(t, err)
	assert.Equal(t, VersionConfig{Major: 11, Minor: 0}, cfg.ExpectedVersion)

	cfg, err = Load(writeConfig(t, "expected_version:\n  major: 12\n"), true)
	require.NoError(t, err)
	assert.Equal(t, VersionConfig{Major: 12, Minor: 3}, cfg.ExpectedVersion)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed yaml", "log_level: [", "failed to parse"},
		{"unknown level", "log_level: verbose", "log_level"},
		{"unknown format", "log_format: xml", "log_format"},
		{"negative minor", "expected_version: {major: 11, minor: -1}", "expected_version"},
		{"report not xlsx", "report_path: out.csv", "report_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), true)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
