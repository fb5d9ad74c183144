package translator

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/canmet-energy/h2k-hpxml/internal/config"
	"github.com/canmet-energy/h2k-hpxml/internal/hpxml"
	"github.com/canmet-energy/h2k-hpxml/internal/types"
)

const samplePath = "../../testdata/sample.h2k"

func testOptions(stdout *bytes.Buffer) Options {
	return Options{
		SchemaPath:    "../../schema/h2k.xsd",
		TemplatePath:  "../../templates/base.osw",
		ExpectedMajor: 11,
		ExpectedMinor: 3,
		Stdout:        stdout,
	}
}

// workflowSteps decodes a written workflow into measure name -> arguments.
func workflowSteps(t *testing.T, doc map[string]any) map[string]map[string]any {
	t.Helper()
	steps, ok := doc["steps"].([]any)
	require.True(t, ok, "steps must be a list")
	out := map[string]map[string]any{}
	for _, s := range steps {
		step := s.(map[string]any)
		args, _ := step["arguments"].(map[string]any)
		out[step["measure_dir_name"].(string)] = args
	}
	return out
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		output string
		want   Plan
	}{
		{"house.xml", Plan{Mode: ModeStub}},
		{"house.XML", Plan{Mode: ModeStub}},
		{"out/house.osw", Plan{Mode: ModeWorkflow, Format: hpxml.FormatJSON}},
		{"house.json", Plan{Mode: ModeWorkflow, Format: hpxml.FormatJSON}},
		{"house.yml", Plan{Mode: ModeWorkflow, Format: hpxml.FormatYAML}},
		{"house.yaml", Plan{Mode: ModeWorkflow, Format: hpxml.FormatYAML}},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			got, err := SelectFormat(tt.output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"house.csv", "house", "house.osw.bak"} {
		_, err := SelectFormat(bad)
		var ufe *types.UnsupportedFormatError
		assert.True(t, errors.As(err, &ufe), bad)
	}
}

func TestUnknownExtensionTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(&bytes.Buffer{})
	opts.TemplatePath = filepath.Join(dir, "missing.osw")
	opts.MetricsFile = filepath.Join(dir, "metrics.prom")

	_, err := New(opts, nil).Run(filepath.Join(dir, "missing.h2k"), filepath.Join(dir, "house.txt"))
	var ufe *types.UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, ".txt", ufe.Extension)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStubPrintsSummaryAndWritesNothing(t *testing.T) {
	var stdout bytes.Buffer
	dir := t.TempDir()
	output := filepath.Join(dir, "house.xml")
	opts := testOptions(&stdout)
	opts.TemplatePath = filepath.Join(dir, "missing.osw")

	res, err := New(opts, nil).Run(samplePath, output)
	require.NoError(t, err)
	assert.Equal(t, ModeStub, res.Plan.Mode)
	assert.False(t, res.Written)

	out := stdout.String()
	assert.Contains(t, out, "TEST-0001")
	assert.Contains(t, out, "OTTAWA")
	assert.Contains(t, out, "Single Detached")
	assert.Contains(t, out, "Rectangular")
	assert.Contains(t, out, output)

	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}

func TestStubRejectsInvalidDocument(t *testing.T) {
	input := filepath.Join(t.TempDir(), "broken.h2k")
	require.NoError(t, os.WriteFile(input, []byte("<HouseFile>"), 0644))

	_, err := New(testOptions(&bytes.Buffer{}), nil).Run(input, "house.xml")
	var sve *types.SchemaValidationError
	assert.True(t, errors.As(err, &sve))
}

func TestWorkflowJSON(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out", "house.osw")
	opts := testOptions(&bytes.Buffer{})
	opts.RunDirectory = "/sim/run"

	res, err := New(opts, nil).Run(samplePath, output)
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Len(t, res.Arguments, 30)
	assert.NotEmpty(t, res.RunID)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "/sim/run", doc["run_directory"])

	steps := workflowSteps(t, doc)
	args := steps[hpxml.BuildMeasure]
	assert.Equal(t, 3.6, args["air_leakage_value"])
	assert.Equal(t, 3.0, args["geometry_unit_num_bedrooms"])
	assert.Equal(t, "5:12", args["geometry_roof_pitch"])
	assert.Equal(t, "Furnace", args["heating_system_type"])
	assert.Equal(t, "suburban", args["site_type"])
	assert.Contains(t, steps, "ReportUtilityBills")
}

func TestWorkflowYAML(t *testing.T) {
	output := filepath.Join(t.TempDir(), "house.yaml")

	_, err := New(testOptions(&bytes.Buffer{}), nil).Run(samplePath, output)
	require.NoError(t, err)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(strings.TrimSpace(string(raw)), "{"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	assert.Equal(t, "run", doc["run_directory"])
	args := workflowSteps(t, doc)[hpxml.BuildMeasure]
	assert.Equal(t, 3, args["geometry_unit_num_bedrooms"])
	assert.Equal(t, "69.8", args["hvac_control_heating_weekday_setpoint"])
}

func TestFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "house.osw")

	t.Run("missing template", func(t *testing.T) {
		opts := testOptions(&bytes.Buffer{})
		opts.TemplatePath = filepath.Join(dir, "missing.osw")
		_, err := New(opts, nil).Run(samplePath, output)
		assert.ErrorContains(t, err, "failed to read template")
	})

	t.Run("unsupported version", func(t *testing.T) {
		opts := testOptions(&bytes.Buffer{})
		opts.ExpectedMajor = 12
		_, err := New(opts, nil).Run(samplePath, output)
		var uve *types.UnsupportedVersionError
		assert.True(t, errors.As(err, &uve))
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := New(testOptions(&bytes.Buffer{}), nil).Run(filepath.Join(dir, "none.h2k"), output)
		assert.Error(t, err)
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFailurePreservesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "house.osw")
	require.NoError(t, os.WriteFile(output, []byte("previous"), 0644))

	opts := testOptions(&bytes.Buffer{})
	opts.TemplatePath = filepath.Join(dir, "missing.osw")
	_, err := New(opts, nil).Run(samplePath, output)
	require.Error(t, err)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(raw))
}

func TestReportAndMetrics(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(&bytes.Buffer{})
	opts.ReportPath = filepath.Join(dir, "records.xlsx")
	opts.MetricsFile = filepath.Join(dir, "metrics", "h2k.prom")

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(when)
	tr := New(opts, nil).WithClock(clock)

	res, err := tr.Run(samplePath, filepath.Join(dir, "house.osw"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), res.Duration)

	wb, err := excelize.OpenFile(opts.ReportPath)
	require.NoError(t, err)
	defer wb.Close()
	assert.Contains(t, wb.GetSheetList(), "Basements")

	m := tr.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("json", "success")))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.ArgumentsWritten))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.Components.WithLabelValues("windows")))
	assert.Equal(t, float64(when.Unix()), testutil.ToFloat64(m.LastSuccessSecond))

	raw, err := os.ReadFile(opts.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `h2k_hpxml_runs_total{format="json",outcome="success"} 1`)
}

func TestFailedRunIsCounted(t *testing.T) {
	opts := testOptions(&bytes.Buffer{})
	opts.TemplatePath = filepath.Join(t.TempDir(), "missing.osw")
	tr := New(opts, nil)

	_, err := tr.Run(samplePath, filepath.Join(t.TempDir(), "house.yml"))
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(tr.Metrics().Runs.WithLabelValues("yaml", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(tr.Metrics().LastSuccessSecond))
}

func TestInspect(t *testing.T) {
	inv, err := New(testOptions(&bytes.Buffer{}), nil).Inspect(samplePath)
	require.NoError(t, err)
	assert.Equal(t, "TEST-0001", inv.FileID)
	assert.Len(t, inv.Walls, 2)
	require.NotNil(t, inv.Heating)
	assert.Equal(t, "Furnace", inv.Heating.Primary.Kind)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RunDirectory = "runs"
	cfg.MetricsFile = "m.prom"

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "schema/h2k.xsd", opts.SchemaPath)
	assert.Equal(t, "templates/base.osw", opts.TemplatePath)
	assert.Equal(t, "runs", opts.RunDirectory)
	assert.Equal(t, "m.prom", opts.MetricsFile)
	assert.Equal(t, 11, opts.ExpectedMajor)
	assert.Equal(t, 3, opts.ExpectedMinor)
}

// writeSampleVariant copies the sample house with one edit applied.
func writeSampleVariant(t *testing.T, old, replacement string) string {
	t.Helper()
	raw, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(raw), old))
	path := filepath.Join(t.TempDir(), "variant.h2k")
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(string(raw), old, replacement, 1)), 0644))
	return path
}

func TestNonNumericMeasurementIsRejectedAtLoad(t *testing.T) {
	input := writeSampleVariant(t,
		`<Measurements height="1200" width="1500"`,
		`<Measurements height="NaN" width="1500"`)

	for _, name := range []string{"house.yml", "house.osw"} {
		t.Run(name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			output := filepath.Join(t.TempDir(), name)

			_, err := New(testOptions(&bytes.Buffer{}), logger).Run(input, output)
			var sve *types.SchemaValidationError
			require.True(t, errors.As(err, &sve), "got %v", err)
			assert.Contains(t, sve.Error(), "NaN")
			assert.Contains(t, logs.String(), "house file failed schema validation")

			_, err = os.Stat(output)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestReportFailureLeavesNoWorkflow(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	opts := testOptions(&bytes.Buffer{})
	opts.ReportPath = filepath.Join(blocker, "records.xlsx")
	output := filepath.Join(dir, "house.osw")

	_, err := New(opts, nil).Run(samplePath, output)
	assert.ErrorContains(t, err, "failed to write report")

	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}
