package pipeline_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-codec/pkg/codec"
	"github.com/askiada/go-codec/pkg/pipeline"
	"github.com/askiada/go-codec/pkg/pipeline/dsl"
	"github.com/askiada/go-codec/pkg/pipeline/model"
)

func TestDesugar(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		line     string
		expected *pipeline.Plan
	}{
		"stages only": {
			line:     "hex",
			expected: &pipeline.Plan{Stages: []model.Stage{model.NewStage("hex")}},
		},
		"decode": {
			line:     "-d hex",
			expected: &pipeline.Plan{Mode: codec.Decode, Stages: []model.Stage{model.NewStage("hex")}},
		},
		"decode wins over encode": {
			line:     "-d -e hex",
			expected: &pipeline.Plan{Mode: codec.Decode, Stages: []model.Stage{model.NewStage("hex")}},
		},
		"everything": {
			line: "-O out -n -I in -F file hex",
			expected: &pipeline.Plan{Stages: []model.Stage{
				model.NewStage("const", model.Value("C", model.Literal("in"))),
				model.NewStage("cat", model.Switch("c"), model.Value("F", model.Literal("file"))),
				model.NewStage("hex"),
				model.NewStage("newline"),
				model.NewStage("redirect", model.Value("O", model.Literal("out"))),
			}},
		},
		"prepended in order": {
			line: "-F b -I a id",
			expected: &pipeline.Plan{Stages: []model.Stage{
				model.NewStage("cat", model.Switch("c"), model.Value("F", model.Literal("b"))),
				model.NewStage("const", model.Value("C", model.Literal("a"))),
				model.NewStage("id"),
			}},
		},
		"input from sub-pipeline": {
			line: "-I [x hex]",
			expected: &pipeline.Plan{Stages: []model.Stage{
				model.NewStage("const", model.Value("C", model.Sub("x", model.NewStage("hex")))),
			}},
		},
		"help": {
			line:     "-d -h hex base64",
			expected: &pipeline.Plan{Mode: codec.Decode, Stages: []model.Stage{model.NewStage("usage")}},
		},
		"graph and metrics": {
			line: "-G g.dot -M m.prom id",
			expected: &pipeline.Plan{
				Stages:      []model.Stage{model.NewStage("id")},
				GraphFile:   "g.dot",
				MetricsFile: "m.prom",
			},
		},
		"empty": {
			line:     "",
			expected: &pipeline.Plan{Stages: []model.Stage{}},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd, err := dsl.Parse(strings.Fields(tc.line))
			require.NoError(t, err)

			plan, err := pipeline.Desugar(cmd)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, plan)
		})
	}
}

func TestDesugarErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		line        string
		expectedErr error
	}{
		"unknown switch":   {line: "-x id", expectedErr: pipeline.ErrUnknownTopOption},
		"unknown value":    {line: "-Z 1 id", expectedErr: pipeline.ErrUnknownTopOption},
		"graph from sub":   {line: "-G [x id] id", expectedErr: pipeline.ErrLiteralRequired},
		"metrics from sub": {line: "-M [x id] id", expectedErr: pipeline.ErrLiteralRequired},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd, err := dsl.Parse(strings.Fields(tc.line))
			require.NoError(t, err)

			_, err = pipeline.Desugar(cmd)
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}

	_, err := pipeline.Desugar(nil)
	require.ErrorIs(t, err, pipeline.ErrPlanMustBeSet)
}
