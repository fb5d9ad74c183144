// =============================================================================
// H2K to HPXML Translator - Root Command
// =============================================================================
//
// This file defines the root command of the CLI. Called with two arguments
// it translates a house file; the subcommands report the version and look
// inside a house file.
//
// COBRA CLI STRUCTURE:
//   rootCmd (h2k2hpxml <input.h2k> <output>)
//   ├── inspectCmd (h2k2hpxml inspect <input.h2k>)
//   └── versionCmd (h2k2hpxml version)
//
// CONFIGURATION:
//   Settings come from the built-in defaults, then the YAML configuration
//   file, then the flags below. A flag always wins.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/canmet-energy/h2k-hpxml/internal/config"
	"github.com/canmet-energy/h2k-hpxml/internal/observability"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile is the configuration file named with --config. When empty,
// config.DefaultConfigPath is read if it exists.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// Overrides for the configuration file.
var (
	schemaPath   string
	templatePath string
	runDirectory string
	reportPath   string
	metricsFile  string
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd translates one house file.
var rootCmd = &cobra.Command{
	Use:   "h2k2hpxml <input.h2k> <output>",
	Short: "H2K to HPXML Translator - Turn HOT2000 house files into simulation workflows",
	Long: `h2k2hpxml reads a HOT2000 (H2K) house file, validates it against the H2K
schema, and writes the building description into an OpenStudio-HPXML
workflow ready to simulate.

The extension of the output path selects what is produced:
  .osw, .json   Workflow as JSON
  .yml, .yaml   Workflow as YAML
  .xml          Validation only; a summary is printed and nothing is written

Example Usage:
  h2k2hpxml house.h2k house.osw                      # Write a JSON workflow
  h2k2hpxml house.h2k house.yml --run-dir /sim/run   # YAML, custom run directory
  h2k2hpxml house.h2k house.osw --report house.xlsx  # Also write every record
  h2k2hpxml inspect house.h2k --dump                 # Show what was extracted`,

	Args: cobra.ExactArgs(2),

	// Errors are printed once, by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runTranslate(args[0], args[1])
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "",
		"Path to the configuration file (default is config.yaml if present)")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	flags.StringVar(&schemaPath, "schema", "",
		"H2K schema (XSD) to validate against")

	// ==========================================================================
	// TRANSLATION FLAGS
	// ==========================================================================

	local := rootCmd.Flags()
	local.StringVar(&templatePath, "template", "",
		"Workflow template to write the building arguments into")
	local.StringVar(&runDirectory, "run-dir", "",
		"Replace the template's run directory")
	local.StringVar(&reportPath, "report", "",
		"Also write every extracted record to this .xlsx file")
	local.StringVar(&metricsFile, "metrics-file", "",
		"Write run metrics to this file in the Prometheus text format")
}

// =============================================================================
// SETTINGS
// =============================================================================

// loadSettings resolves the configuration and builds the logger.
//
// RETURNS:
//   - The configuration with every flag override applied.
//   - The logger, writing to stderr.
//   - An error if the configuration file is unreadable or invalid.
func loadSettings() (*config.AppConfig, *slog.Logger, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile, true)
	} else {
		cfg, err = config.Load(config.DefaultConfigPath, false)
	}
	if err != nil {
		return nil, nil, err
	}

	override(&cfg.SchemaPath, schemaPath)
	override(&cfg.TemplatePath, templatePath)
	override(&cfg.RunDirectory, runDirectory)
	override(&cfg.ReportPath, reportPath)
	override(&cfg.MetricsFile, metricsFile)
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	return cfg, logger, nil
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}
