// =============================================================================
// H2K to HPXML Translator - Translation Driver
// =============================================================================
//
// This module runs one translation from start to finish. It chooses what to
// do from the output path alone, before anything is read or written, and
// then either prints a validation summary or produces a workflow.
//
// OUTPUT STRATEGIES:
//   | Extension     | Strategy                                        |
//   |---------------|-------------------------------------------------|
//   | .xml          | Stub: validate the house file and print summary |
//   | .osw, .json   | Workflow written as JSON                        |
//   | .yml, .yaml   | Workflow written as YAML                        |
//   | anything else | UnsupportedFormatError                          |
//
// WORKFLOW PIPELINE:
//   1. Load and validate the house file, check its version
//   2. Load the workflow template
//   3. Replace the run directory if one was configured
//   4. Map the house onto the building arguments
//   5. Collect every record and write the report, if one was requested
//   6. Write the workflow atomically
//   7. Write the metrics textfile
//
// A failure in steps 1 to 6 leaves no workflow behind. A report written in
// step 5 is removed again if step 6 fails.
//
// =============================================================================

package translator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/canmet-energy/h2k-hpxml/internal/config"
	"github.com/canmet-energy/h2k-hpxml/internal/h2k"
	"github.com/canmet-energy/h2k-hpxml/internal/hpxml"
	"github.com/canmet-energy/h2k-hpxml/internal/observability"
	"github.com/canmet-energy/h2k-hpxml/internal/report"
	"github.com/canmet-energy/h2k-hpxml/internal/types"
	"github.com/canmet-energy/h2k-hpxml/internal/validation"
	"github.com/canmet-energy/h2k-hpxml/pkg/utils"
)

// =============================================================================
// OUTPUT STRATEGY SELECTION
// =============================================================================

// Mode is what a run produces.
type Mode int

const (
	// ModeStub validates and summarizes without writing anything.
	ModeStub Mode = iota
	// ModeWorkflow writes a simulation workflow.
	ModeWorkflow
)

func (m Mode) String() string {
	if m == ModeStub {
		return "stub"
	}
	return "workflow"
}

// Plan is the strategy chosen for an output path.
type Plan struct {
	Mode   Mode
	Format hpxml.Format
}

// label names the plan in logs and metrics.
func (p Plan) label() string {
	if p.Mode == ModeStub {
		return "xml"
	}
	return p.Format.String()
}

// SelectFormat chooses the output strategy from the extension of output.
// The comparison ignores case.
func SelectFormat(output string) (Plan, error) {
	ext := strings.ToLower(filepath.Ext(output))
	switch ext {
	case ".xml":
		return Plan{Mode: ModeStub}, nil
	case ".osw", ".json":
		return Plan{Mode: ModeWorkflow, Format: hpxml.FormatJSON}, nil
	case ".yml", ".yaml":
		return Plan{Mode: ModeWorkflow, Format: hpxml.FormatYAML}, nil
	default:
		return Plan{}, &types.UnsupportedFormatError{Path: output, Extension: ext}
	}
}

// =============================================================================
// TRANSLATOR
// =============================================================================

// Options are the settings of a translator.
type Options struct {
	SchemaPath   string
	TemplatePath string

	// RunDirectory replaces the template's run_directory when set.
	RunDirectory string

	// ReportPath receives an XLSX sheet of every record when set.
	ReportPath string

	// MetricsFile receives the run metrics when set.
	MetricsFile string

	ExpectedMajor int
	ExpectedMinor int

	// Stdout receives the stub summary. Defaults to os.Stdout.
	Stdout io.Writer
}

// OptionsFromConfig converts the application configuration.
func OptionsFromConfig(cfg *config.AppConfig) Options {
	return Options{
		SchemaPath:    cfg.SchemaPath,
		TemplatePath:  cfg.TemplatePath,
		RunDirectory:  cfg.RunDirectory,
		ReportPath:    cfg.ReportPath,
		MetricsFile:   cfg.MetricsFile,
		ExpectedMajor: cfg.ExpectedVersion.Major,
		ExpectedMinor: cfg.ExpectedVersion.Minor,
	}
}

// Translator runs translations. It holds no per-run state besides its
// metrics, so one translator may run several files in turn.
type Translator struct {
	opts    Options
	logger  *slog.Logger
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// New creates a translator. A nil logger uses slog.Default.
func New(opts Options, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Translator{
		opts:    opts,
		logger:  logger,
		clock:   clockwork.NewRealClock(),
		metrics: observability.NewMetrics(),
	}
}

// WithClock replaces the clock used for run timing.
func (t *Translator) WithClock(c clockwork.Clock) *Translator {
	t.clock = c
	return t
}

// Metrics returns the metrics the translator records into.
func (t *Translator) Metrics() *observability.Metrics {
	return t.metrics
}

// Result describes a finished run.
type Result struct {
	RunID  string
	Input  string
	Output string
	Plan   Plan

	// Written is true once the output file is in place.
	Written bool

	// Arguments are the building arguments that were written.
	Arguments []string
	Notices   []hpxml.Notice

	Duration time.Duration
}

// =============================================================================
// RUN
// =============================================================================

// Run translates input into output.
//
// PARAMETERS:
//   - input: Path to the H2K house file.
//   - output: Path of the file to produce. Its extension selects the
//     strategy.
//
// RETURNS:
//   - The run result.
//   - UnsupportedFormatError for an unknown extension, raised before any
//     file is touched; otherwise the first load, extraction, mapping or
//     write error.
func (t *Translator) Run(input, output string) (*Result, error) {
	plan, err := SelectFormat(output)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:  uuid.New().String(),
		Input:  input,
		Output: output,
		Plan:   plan,
	}
	logger := t.logger.With("run_id", res.RunID)
	start := t.clock.Now()

	logger.Info("starting translation", "input", input, "output", output, "mode", plan.Mode.String())

	if plan.Mode == ModeStub {
		err = t.stub(logger, input, output)
	} else {
		err = t.workflow(logger, res, plan.Format)
	}

	res.Duration = t.clock.Since(start)
	t.record(logger, res, err)

	if err != nil {
		logger.Error("translation failed", "error", err, "duration", res.Duration)
		return nil, err
	}
	logger.Info("translation complete", "duration", res.Duration, "arguments", len(res.Arguments), "notices", len(res.Notices))
	return res, nil
}

// load validates the house file and checks its version.
func (t *Translator) load(logger *slog.Logger, input string) (*h2k.Document, error) {
	schema, err := validation.LoadSchema(t.opts.SchemaPath)
	if err != nil {
		return nil, err
	}
	doc, err := h2k.LoadWithSchema(input, schema)
	if err != nil {
		var sve *types.SchemaValidationError
		if errors.As(err, &sve) {
			logger.Error("house file failed schema validation", "file", input,
				"violations", len(sve.Violations), "details", validation.FormatViolations(sve.Violations))
		}
		return nil, err
	}
	logger.Debug("house file loaded", "walls", doc.Root.Count("Wall"),
		"windows", doc.Root.Count("Window"), "doors", doc.Root.Count("Door"))
	warning, err := doc.CheckVersion(t.opts.ExpectedMajor, t.opts.ExpectedMinor)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		logger.Warn(warning)
	}
	return doc, nil
}

// stub prints a summary of a valid house file.
func (t *Translator) stub(logger *slog.Logger, input, output string) error {
	doc, err := t.load(logger, input)
	if err != nil {
		return err
	}
	e := h2k.NewExtractor(doc)

	id, err := e.FileID()
	if err != nil {
		return err
	}
	climate, err := e.Climate()
	if err != nil {
		return err
	}
	spec, err := e.Specifications()
	if err != nil {
		return err
	}

	w := t.opts.Stdout
	fmt.Fprintf(w, "File ID:    %s\n", id)
	fmt.Fprintf(w, "City:       %s\n", climate.City)
	fmt.Fprintf(w, "House type: %s\n", spec.HouseType.Label)
	fmt.Fprintf(w, "Plan shape: %s\n", spec.PlanShape.Label)
	fmt.Fprintf(w, "Output:     %s (HPXML output is not produced; nothing written)\n", output)
	return nil
}

// workflow produces the simulation workflow.
func (t *Translator) workflow(logger *slog.Logger, res *Result, format hpxml.Format) error {
	doc, err := t.load(logger, res.Input)
	if err != nil {
		return err
	}

	tmpl, err := hpxml.LoadTemplate(t.opts.TemplatePath)
	if err != nil {
		return err
	}
	if t.opts.RunDirectory != "" {
		tmpl.SetRunDirectory(t.opts.RunDirectory)
	}

	e := h2k.NewExtractor(doc)
	mapped, err := hpxml.NewMapper(logger).Apply(tmpl, e)
	if err != nil {
		return err
	}
	res.Arguments = mapped.Arguments
	res.Notices = mapped.Notices

	var inv *h2k.Inventory
	if t.opts.ReportPath != "" {
		if inv, err = e.Collect(); err != nil {
			return err
		}
		for _, kc := range inv.Counts() {
			t.metrics.Components.WithLabelValues(kc.Kind).Set(float64(kc.Count))
		}
	}

	// The report goes first so that a report failure leaves no workflow.
	if inv != nil {
		if err := report.WriteInventory(t.opts.ReportPath, inv); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("report written", "path", t.opts.ReportPath)
	}

	if utils.FileExists(res.Output) {
		logger.Info("replacing existing workflow", "path", res.Output)
	}
	err = utils.WriteFileAtomic(res.Output, func(w io.Writer) error {
		return tmpl.Encode(w, format)
	})
	if err != nil {
		if inv != nil {
			os.Remove(t.opts.ReportPath)
		}
		return fmt.Errorf("failed to write workflow: %w", err)
	}
	res.Written = true
	logger.Info("workflow written", "path", res.Output, "format", format.String())
	return nil
}

// record updates the run metrics and writes the textfile if configured.
// A textfile failure is logged and does not fail the run.
func (t *Translator) record(logger *slog.Logger, res *Result, runErr error) {
	outcome := "success"
	if runErr != nil {
		outcome = "error"
	}
	t.metrics.Runs.WithLabelValues(res.Plan.label(), outcome).Inc()
	t.metrics.RunDuration.Observe(res.Duration.Seconds())
	t.metrics.ArgumentsWritten.Set(float64(len(res.Arguments)))
	for _, n := range res.Notices {
		t.metrics.Notices.WithLabelValues(n.Code).Inc()
	}
	if runErr == nil {
		t.metrics.LastSuccessSecond.Set(float64(t.clock.Now().Unix()))
	}

	if t.opts.MetricsFile == "" {
		return
	}
	if err := utils.EnsureParentDir(t.opts.MetricsFile); err != nil {
		logger.Warn("failed to prepare metrics file", "error", err)
		return
	}
	if err := t.metrics.WriteTextfile(t.opts.MetricsFile); err != nil {
		logger.Warn("failed to write metrics file", "path", t.opts.MetricsFile, "error", err)
	}
}

// =============================================================================
// INSPECTION
// =============================================================================

// Inspect loads a house file and returns every record in it.
func (t *Translator) Inspect(input string) (*h2k.Inventory, error) {
	logger := t.logger.With("run_id", uuid.New().String())
	doc, err := t.load(logger, input)
	if err != nil {
		return nil, err
	}
	return h2k.NewExtractor(doc).Collect()
}
