package observability

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "run_id", "abc")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"run_id":"abc"`)

	buf.Reset()
	NewLogger("debug", "text", &buf).Debug("details")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestMetricsTextfile(t *testing.T) {
	m := NewMetrics()
	m.Runs.WithLabelValues("json", "success").Inc()
	m.Components.WithLabelValues("walls").Set(2)
	m.Notices.WithLabelValues("unhandled-configuration").Inc()
	m.ArgumentsWritten.Set(30)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("json", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Components.WithLabelValues("walls")))

	path := filepath.Join(t.TempDir(), "h2k.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `h2k_hpxml_runs_total{format="json",outcome="success"} 1`)
	assert.Contains(t, string(raw), `h2k_hpxml_components{kind="walls"} 2`)
	assert.Contains(t, string(raw), "h2k_hpxml_arguments_written 30")
}

func TestMetricsAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ArgumentsWritten.Set(5)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ArgumentsWritten))
}
