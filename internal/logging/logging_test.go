package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"error":   slog.LevelError,
		"warn":    slog.LevelWarn,
		"":        slog.LevelWarn,
		"verbose": slog.LevelWarn,
	}

	for input, expected := range tcs {
		assert.Equal(t, expected, parseLevel(input), input)
	}
}

// Configure swaps a global, so these run sequentially.
func TestConfigure(t *testing.T) {
	prev := L()
	t.Cleanup(func() { def.Store(prev) })

	var buf bytes.Buffer
	Configure(Options{Level: "debug", JSON: true, Output: &buf})
	L().Debug("stage finished", "stage", "id#0")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "stage finished", line["msg"])
	assert.Equal(t, "id#0", line["stage"])

	buf.Reset()
	Configure(Options{Level: "error", Output: &buf})
	L().Warn("dropped")
	assert.Empty(t, buf.String())

	L().Error("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}
