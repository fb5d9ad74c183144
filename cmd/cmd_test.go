package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canmet-energy/h2k-hpxml/internal/h2k"
)

// resetFlags restores the package flag variables after a test changes them.
func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		cfgFile, verbose, dump = "", false, false
		schemaPath, templatePath, runDirectory, reportPath, metricsFile = "", "", "", "", ""
	})
}

func TestRootRequiresTwoArguments(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, nil))
	assert.Error(t, rootCmd.Args(rootCmd, []string{"house.h2k"}))
	assert.Error(t, rootCmd.Args(rootCmd, []string{"a", "b", "c"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"house.h2k", "house.osw"}))
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["version"])
	assert.True(t, names["inspect"])
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	assert.Contains(t, buf.String(), "Version:     "+Version)
	assert.Contains(t, buf.String(), "H2K Version: 11.3")
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("template_path: from-file.osw\nrun_directory: file-run\nlog_level: warn\n"), 0644))

	cfgFile = path
	runDirectory = "flag-run"
	verbose = true

	cfg, logger, err := loadSettings()
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, "from-file.osw", cfg.TemplatePath)
	assert.Equal(t, "flag-run", cfg.RunDirectory)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestExplicitConfigMustExist(t *testing.T) {
	resetFlags(t)
	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, _, err := loadSettings()
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestReportFlagMustBeWorkbook(t *testing.T) {
	resetFlags(t)
	cfgFile = filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("log_level: info\n"), 0644))
	reportPath = "records.csv"

	_, _, err := loadSettings()
	assert.ErrorContains(t, err, "report_path")
}

func TestPrintCounts(t *testing.T) {
	inv := &h2k.Inventory{
		FileID:  "TEST-0001",
		Version: h2k.Version{Major: 11, Minor: 3},
		Walls:   make([]h2k.Wall, 2),
		Heating: &h2k.Heating{
			Primary: h2k.HeatingSystem{Kind: "AirHeatPump"},
			Backup:  &h2k.HeatingSystem{Kind: "Furnace"},
		},
	}

	var buf bytes.Buffer
	printCounts(&buf, inv)
	out := buf.String()
	assert.Contains(t, out, "TEST-0001")
	assert.Contains(t, out, "H2K version: 11.3")
	assert.Regexp(t, `walls:\s+2\n`, out)
	assert.Contains(t, out, "AirHeatPump (backup Furnace)")
}
