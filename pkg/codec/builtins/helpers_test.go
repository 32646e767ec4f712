package builtins_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-codec/pkg/codec"
	"github.com/askiada/go-codec/pkg/codec/builtins"
	"github.com/askiada/go-codec/pkg/pipeline/model"
)

func registry(t *testing.T) *codec.Registry {
	t.Helper()

	reg, err := builtins.NewRegistry()
	require.NoError(t, err)

	return reg
}

// options builds options from command-line style pairs: "T", "3", "c".
func options(args ...string) codec.Options {
	opts := codec.NewOptions()

	for i := 0; i < len(args); i++ {
		name := args[i]
		if model.TakesValue(name) && i+1 < len(args) {
			opts.SetText(name, []byte(args[i+1]))
			i++

			continue
		}

		opts.SetSwitch(name)
	}

	return opts
}

// chunkReader returns at most n bytes per Read.
type chunkReader struct {
	r io.Reader
	n int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(p) > c.n {
		p = p[:c.n]
	}

	return c.r.Read(p)
}

func runCodec(reg *codec.Registry, name string, mode codec.Mode, in io.Reader, opts codec.Options) ([]byte, error) {
	c, ok := reg.Lookup(name)
	if !ok {
		return nil, &lookupErr{name}
	}

	var out bytes.Buffer

	if mc, ok := c.(codec.MetaCodec); ok {
		err := mc.RunMeta(context.Background(), in, mode, opts, reg, &out)

		return out.Bytes(), err
	}

	err := c.Run(context.Background(), in, mode, opts, &out)

	return out.Bytes(), err
}

type lookupErr struct{ name string }

func (e *lookupErr) Error() string { return e.name + ": not registered" }

func encode(t require.TestingT, reg *codec.Registry, name string, input []byte, args ...string) []byte {
	out, err := runCodec(reg, name, codec.Encode, bytes.NewReader(input), options(args...))
	require.NoError(t, err)

	return out
}

func decode(t require.TestingT, reg *codec.Registry, name string, input []byte, args ...string) []byte {
	out, err := runCodec(reg, name, codec.Decode, bytes.NewReader(input), options(args...))
	require.NoError(t, err)

	return out
}
