package measure_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-codec/pkg/codec/builtins"
	"github.com/askiada/go-codec/pkg/pipeline"
	"github.com/askiada/go-codec/pkg/pipeline/dsl"
	"github.com/askiada/go-codec/pkg/pipeline/measure"
)

func TestDefaultMeasure(t *testing.T) {
	t.Parallel()

	m := measure.NewDefaultMeasure()

	mt := m.AddMetric("hex#0", "hex")
	assert.Same(t, mt, m.AddMetric("hex#0", "hex"))

	mt.Record(10, time.Millisecond)
	mt.Record(5, time.Millisecond)
	m.AddMetric("hex#1", "hex").Record(1, time.Second)

	assert.Equal(t, "hex", mt.Name())
	assert.Equal(t, int64(15), mt.Written())
	assert.Equal(t, 2*time.Millisecond, mt.Elapsed())
	assert.Len(t, m.AllMetrics(), 2)
	assert.Nil(t, m.GetMetric("missing"))

	expected := `
# HELP codec_stage_written_bytes_total Bytes written by stages running a codec.
# TYPE codec_stage_written_bytes_total counter
codec_stage_written_bytes_total{codec="hex"} 16
# HELP codec_stage_runs_total Stages that ran a codec to completion.
# TYPE codec_stage_runs_total counter
codec_stage_runs_total{codec="hex"} 3
`
	err := testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected),
		"codec_stage_written_bytes_total", "codec_stage_runs_total")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Gatherer(), "codec_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPipelineMeasure(t *testing.T) {
	t.Parallel()

	reg, err := builtins.NewRegistry()
	require.NoError(t, err)

	textfile := filepath.Join(t.TempDir(), "codec.prom")
	m := measure.NewDefaultMeasure()

	pipe, err := pipeline.New(reg, pipeline.WithHooks(measure.PipelineMeasure(m, textfile)))
	require.NoError(t, err)

	cmd, err := dsl.Parse(strings.Fields("-I a append -A [b hex] hex"))
	require.NoError(t, err)

	var out strings.Builder

	err = pipe.Execute(t.Context(), cmd, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "613632", out.String())

	written := map[string]int64{}
	for id, mt := range m.AllMetrics() {
		written[id] = mt.Written()
	}

	assert.Equal(t, map[string]int64{
		"const#0":             1,
		"append#1":            3,
		"append#1/-A#0/hex#0": 2,
		"hex#2":               6,
	}, written)

	expected := `
# HELP codec_stage_written_bytes_total Bytes written by stages running a codec.
# TYPE codec_stage_written_bytes_total counter
codec_stage_written_bytes_total{codec="append"} 3
codec_stage_written_bytes_total{codec="const"} 1
codec_stage_written_bytes_total{codec="hex"} 8
`
	err = testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected), "codec_stage_written_bytes_total")
	require.NoError(t, err)

	content, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `codec_stage_written_bytes_total{codec="hex"} 8`)
	assert.Contains(t, string(content), "codec_stage_duration_seconds_bucket")
}

func TestPipelineMeasureWithoutTextfile(t *testing.T) {
	t.Parallel()

	hook := measure.PipelineMeasure(measure.NewDefaultMeasure(), "")
	require.NoError(t, hook.New())
	require.NoError(t, hook.Finish())
}

func TestRound(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    time.Duration
		expected time.Duration
	}{
		"nanoseconds":  {input: 999, expected: 999},
		"microseconds": {input: 1500 * time.Microsecond, expected: 1500 * time.Microsecond},
		"fraction":     {input: 1_234_567, expected: 1_235 * time.Microsecond},
		"seconds":      {input: 2*time.Second + 1_234_567, expected: 2*time.Second + time.Millisecond},
		"hours":        {input: 2*time.Hour + 40*time.Second, expected: 2*time.Hour + time.Minute},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, measure.Round(tc.input))
		})
	}
}
