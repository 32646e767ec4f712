package codec_test

import (
	"context"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-codec/pkg/codec"
)

func copyCodec() codec.Codec {
	return codec.Func(func(_ context.Context, in io.Reader, _ codec.Mode, _ codec.Options, out io.Writer) error {
		_, err := io.Copy(out, in)

		return err
	})
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	b := codec.NewBuilder()
	require.NoError(t, b.Register("id", copyCodec()))
	require.NoError(t, b.Register("other", codec.WithUsage(copyCodec(), "    nothing\n")))
	reg := b.Build()

	c, ok := reg.Lookup("id")
	assert.True(t, ok)
	assert.NotNil(t, c)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"id", "other"}, reg.Names())
	assert.Equal(t, 2, reg.Len())

	other, _ := reg.Lookup("other")
	u, ok := other.(codec.Usager)
	require.True(t, ok)
	assert.Equal(t, "    nothing\n", u.Usage())
}

func TestRegistryRejects(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		name     string
		codec    codec.Codec
		expected error
	}{
		"empty name": {
			name:     "",
			codec:    copyCodec(),
			expected: codec.ErrEmptyName,
		},
		"nil codec": {
			name:     "nil",
			expected: codec.ErrCodecMustBeSet,
		},
		"duplicate": {
			name:     "id",
			codec:    copyCodec(),
			expected: codec.ErrDuplicateName,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := codec.NewBuilder()
			require.NoError(t, b.Register("id", copyCodec()))
			err := b.Register(tc.name, tc.codec)
			assert.True(t, errors.Is(err, tc.expected), err)
		})
	}
}

func TestRegistryBuiltIsFrozen(t *testing.T) {
	t.Parallel()

	b := codec.NewBuilder()
	require.NoError(t, b.Register("id", copyCodec()))
	reg := b.Build()

	err := b.Register("late", copyCodec())
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrRegistryBuilt))
	assert.Equal(t, 1, reg.Len())

	names := reg.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"id"}, reg.Names())
}

func TestNilRegistry(t *testing.T) {
	t.Parallel()

	var reg *codec.Registry
	_, ok := reg.Lookup("id")
	assert.False(t, ok)
	assert.Empty(t, reg.Names())
	assert.Zero(t, reg.Len())
}
