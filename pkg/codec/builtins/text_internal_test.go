package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteRunes(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  int
	}{
		"empty":             {input: "", want: 0},
		"ascii":             {input: "abc", want: 3},
		"complete rune":     {input: "aé", want: 3},
		"cut two byte rune": {input: "a\xc3", want: 1},
		"cut four bytes":    {input: "a\xf0\x9f\x98", want: 1},
		"invalid byte":      {input: "a\xff", want: 2},
		"lone continuation": {input: "a\x80", want: 2},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, completeRunes([]byte(tc.input)))
		})
	}
}

func TestUnescapeHoldsPartialSequences(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		wantOut  string
		wantRest string
	}{
		"plain":        {input: "abc", wantOut: "abc"},
		"backslash":    {input: `ab\`, wantOut: "ab", wantRest: `\`},
		"short hex":    {input: `a\x4`, wantOut: "a", wantRest: `\x4`},
		"hex":          {input: `a\x41`, wantOut: "aA"},
		"short rune":   {input: `\u00e`, wantRest: `\u00e`},
		"rune":         {input: `é!`, wantOut: "é!"},
		"long rune":    {input: `\U0001f600`, wantOut: "😀"},
		"octal":        {input: `\101`, wantOut: "A"},
		"simple":       {input: `\n\t\\\"`, wantOut: "\n\t\\\""},
		"raw high hex": {input: `\xff`, wantOut: "\xff"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, rest, err := unescape([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.wantOut, string(out))
			assert.Equal(t, tc.wantRest, string(rest))
		})
	}
}

func TestPad(t *testing.T) {
	t.Parallel()

	for n := range 40 {
		b := make([]byte, n)
		padded := pad(b, 16)
		require.Zero(t, len(padded)%16)
		require.Greater(t, len(padded), n)

		got, err := unpad(padded, 16)
		require.NoError(t, err)
		assert.Len(t, got, n)
	}

	_, err := unpad([]byte{1, 2, 3}, 16)
	require.ErrorIs(t, err, ErrInvalidPadding)
}
