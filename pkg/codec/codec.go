package codec

import (
	"context"
	"io"
)

// Mode selects the direction a codec runs in.
type Mode int

const (
	// Encode is the forward direction (the default).
	Encode Mode = iota
	// Decode is the reverse direction.
	Decode
)

func (m Mode) String() string {
	if m == Decode {
		return "decode"
	}

	return "encode"
}

// Codec transforms a byte stream.
//
// Run reads in until EOF (or until it has what it needs), writes the transformed
// bytes to out and returns. Returning closes nothing: the caller owns both ends.
type Codec interface {
	Run(ctx context.Context, in io.Reader, mode Mode, opts Options, out io.Writer) error
}

// Usager is implemented by codecs that document their options.
type Usager interface {
	Usage() string
}

// MetaCodec is implemented by codecs that need to inspect the registry they run from.
type MetaCodec interface {
	Codec
	RunMeta(ctx context.Context, in io.Reader, mode Mode, opts Options, reg *Registry, out io.Writer) error
}

// Func adapts a plain function to a Codec.
type Func func(ctx context.Context, in io.Reader, mode Mode, opts Options, out io.Writer) error

// Run calls fn.
func (fn Func) Run(ctx context.Context, in io.Reader, mode Mode, opts Options, out io.Writer) error {
	return fn(ctx, in, mode, opts, out)
}

// WithUsage attaches a usage text to a codec.
func WithUsage(c Codec, usage string) Codec {
	return &documented{Codec: c, usage: usage}
}

type documented struct {
	Codec
	usage string
}

func (d *documented) Usage() string { return d.usage }

var (
	_ Codec  = Func(nil)
	_ Usager = (*documented)(nil)
)
