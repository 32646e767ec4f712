package drawer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-codec/pkg/codec/builtins"
	"github.com/askiada/go-codec/pkg/pipeline"
	"github.com/askiada/go-codec/pkg/pipeline/drawer"
	"github.com/askiada/go-codec/pkg/pipeline/dsl"
	"github.com/askiada/go-codec/pkg/pipeline/measure"
)

func TestDOTDrawer(t *testing.T) {
	t.Parallel()

	d := drawer.NewDOTDrawer("")

	require.NoError(t, d.AddStage("hex#0", "hex"))
	require.NoError(t, d.AddStage("base64#1", "base64"))
	require.NoError(t, d.AddLink("hex#0", "base64#1", ""))

	err := d.AddStage("hex#0", "hex")
	require.ErrorIs(t, err, graph.ErrVertexAlreadyExists)

	err = d.AddLink("hex#0", "missing", "")
	require.Error(t, err)

	var buf bytes.Buffer

	require.NoError(t, d.Render(&buf))

	got := buf.String()
	assert.True(t, strings.HasPrefix(got, "strict digraph {"))
	assert.Contains(t, got, `rankdir="LR";`)
	assert.Contains(t, got, `"hex#0" -> "base64#1"`)
	assert.Contains(t, got, `label="hex"`)
	assert.Less(t, strings.Index(got, `"base64#1" [`), strings.Index(got, `"hex#0" [`))
}

func TestDOTDrawerMeasure(t *testing.T) {
	t.Parallel()

	d := drawer.NewDOTDrawer("")
	require.NoError(t, d.AddStage("id#0", "id"))
	require.NoError(t, d.AddStage("take#1", "take"))
	require.NoError(t, d.AddStage("end", "end"))
	require.NoError(t, d.AddLink("id#0", "take#1", ""))
	require.NoError(t, d.AddLink("take#1", "end", ""))

	m := measure.NewDefaultMeasure()
	m.AddMetric("id#0", "id").Record(100, 3*time.Millisecond)
	m.AddMetric("take#1", "take").Record(5, time.Millisecond)

	require.NoError(t, d.AddMeasure(m))
	require.NoError(t, d.SetTotalTime("end", time.Now().Add(-time.Second)))

	var buf bytes.Buffer

	require.NoError(t, d.Render(&buf))

	got := buf.String()
	assert.Contains(t, got, `label="100 B"`)
	assert.Contains(t, got, `label="5 B"`)
	assert.Contains(t, got, `color="#`)
	assert.Contains(t, got, `<id <BR /> <FONT POINT-SIZE="12">3ms</FONT>>`)
	assert.Contains(t, got, `<end <BR />`)

	// The measure refers to stages the drawer never saw.
	other := measure.NewDefaultMeasure()
	other.AddMetric("unknown#0", "unknown")
	require.Error(t, d.AddMeasure(other))
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	reg, err := builtins.NewRegistry()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pipeline.dot")
	m := measure.NewDefaultMeasure()

	pipe, err := pipeline.New(reg, pipeline.WithHooks(
		measure.PipelineMeasure(m, ""),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(path), m),
	))
	require.NoError(t, err)

	cmd, err := dsl.Parse(strings.Fields("-I a append -A [b hex] hex"))
	require.NoError(t, err)

	var out bytes.Buffer

	err = pipe.Execute(t.Context(), cmd, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "613632", out.String())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	got := string(content)
	for _, edge := range []string{
		`"start" -> "const#0"`,
		`"const#0" -> "append#1"`,
		`"append#1" -> "hex#2"`,
		`"hex#2" -> "end"`,
		`"append#1/-A#0/hex#0" -> "append#1"`,
	} {
		assert.Contains(t, got, edge)
	}

	assert.Contains(t, got, `label="-A 2 B"`)
	assert.Contains(t, got, `label="6 B"`)
	assert.Contains(t, got, `style="dashed"`)
	assert.Equal(t, 1, strings.Count(got, `penwidth="3"`))
}

func TestPipelineDrawerRepeatedOption(t *testing.T) {
	t.Parallel()

	reg, err := builtins.NewRegistry()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pipeline.dot")
	m := measure.NewDefaultMeasure()

	pipe, err := pipeline.New(reg, pipeline.WithHooks(
		measure.PipelineMeasure(m, ""),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(path), m),
	))
	require.NoError(t, err)

	cmd, err := dsl.Parse(strings.Fields("-I a append -A [x id] -A [y id]"))
	require.NoError(t, err)

	var out bytes.Buffer

	err = pipe.Execute(t.Context(), cmd, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "ay", out.String())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	got := string(content)
	assert.Contains(t, got, `"append#1/-A#0/id#0" -> "append#1"`)
	assert.Contains(t, got, `"append#1/-A#1/id#0" -> "append#1"`)

	metrics := m.AllMetrics()
	require.Contains(t, metrics, "append#1/-A#0/id#0")
	require.Contains(t, metrics, "append#1/-A#1/id#0")
	assert.Equal(t, int64(1), metrics["append#1/-A#0/id#0"].Written())
	assert.Equal(t, int64(1), metrics["append#1/-A#1/id#0"].Written())
}

func TestPipelineDrawerWithoutMeasure(t *testing.T) {
	t.Parallel()

	reg, err := builtins.NewRegistry()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pipeline.dot")

	pipe, err := pipeline.New(reg, pipeline.WithHooks(drawer.PipelineDrawer(drawer.NewDOTDrawer(path), nil)))
	require.NoError(t, err)

	cmd, err := dsl.Parse([]string{"id"})
	require.NoError(t, err)

	err = pipe.Execute(t.Context(), cmd, strings.NewReader("x"), &bytes.Buffer{})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"start" -> "id#0"`)
	assert.Contains(t, string(content), `"id#0" -> "end"`)
	assert.NotContains(t, string(content), "FONT")
}

func TestDOTDrawerMarkSlowest(t *testing.T) {
	t.Parallel()

	d := drawer.NewDOTDrawer("")
	for _, id := range []string{"start", "end", "hex#0", "hex#1", "append#1/-A#0/const#0"} {
		require.NoError(t, d.AddStage(id, id))
	}

	require.NoError(t, d.AddLink("start", "hex#0", ""))
	require.NoError(t, d.AddLink("hex#0", "hex#1", ""))
	require.NoError(t, d.AddLink("hex#1", "end", ""))
	require.NoError(t, d.AddLink("append#1/-A#0/const#0", "hex#1", "-A"))

	m := measure.NewDefaultMeasure()
	m.AddMetric("hex#0", "hex").Record(1, time.Millisecond)
	m.AddMetric("hex#1", "hex").Record(1, 2*time.Millisecond)
	// Sub-pipeline stages are off the main chain.
	m.AddMetric("append#1/-A#0/const#0", "const").Record(1, time.Second)

	require.NoError(t, d.MarkSlowest("start", "end", m))

	var buf bytes.Buffer

	require.NoError(t, d.Render(&buf))

	got := buf.String()
	for _, line := range strings.Split(got, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, `"hex#1" [`) {
			assert.Contains(t, line, `color="red"`)
			assert.Contains(t, line, `penwidth="3"`)
		} else {
			assert.NotContains(t, line, "penwidth")
		}
	}

	assert.Contains(t, got, "penwidth")
}

func TestDOTDrawerMarkSlowestUnreachable(t *testing.T) {
	t.Parallel()

	d := drawer.NewDOTDrawer("")
	require.NoError(t, d.AddStage("start", "start"))
	require.NoError(t, d.AddStage("end", "end"))

	require.NoError(t, d.MarkSlowest("start", "end", measure.NewDefaultMeasure()))
}
