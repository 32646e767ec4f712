package builtins

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/askiada/go-codec/pkg/codec"
)

func idCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, _ codec.Mode, _ codec.Options, out io.Writer) error {
		_, err := io.Copy(out, in)

		return err
	}), "    pass input to output as is\n")
}

func repeatCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, _ codec.Mode, opts codec.Options, out io.Writer) error {
		times, err := opts.Int("T", 0)
		if err != nil {
			return err
		}

		if times < 0 {
			return errors.Wrapf(codec.ErrInvalidOption, "-T: %d is negative", times)
		}

		input, err := io.ReadAll(in)
		if err != nil {
			return err
		}

		for range times {
			_, err := out.Write(input)
			if err != nil {
				return err
			}
		}

		return nil
	}), "    -T times: repeat input for `times` times (int, >=0, default 0)\n")
}

func constCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, _ io.Reader, _ codec.Mode, opts codec.Options, out io.Writer) error {
		text, err := opts.Required("C", "replacement")
		if err != nil {
			return err
		}

		_, err = out.Write(text)

		return err
	}), "    -C replacement: ignore input, and replace the output with `replacement`\n")
}

func appendText(in io.Reader, out io.Writer, text []byte) error {
	_, err := io.Copy(out, in)
	if err != nil {
		return err
	}

	_, err = out.Write(text)

	return err
}

func appendCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, _ codec.Mode, opts codec.Options, out io.Writer) error {
		text, err := opts.Required("A", "append value")
		if err != nil {
			return err
		}

		return appendText(in, out, text)
	}), "    -A value: copy input, then write `value`\n")
}

func newlineCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, _ codec.Mode, _ codec.Options, out io.Writer) error {
		return appendText(in, out, []byte("\n"))
	}), "    copy input, then write a new line\n")
}

func catCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, _ codec.Mode, opts codec.Options, out io.Writer) error {
		if !opts.Switch("c") {
			_, err := io.Copy(out, in)
			if err != nil {
				return err
			}
		}

		path, ok := opts.String("F")
		if !ok {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "unable to open input file")
		}
		defer f.Close()

		_, err = io.Copy(out, f)

		return err
	}), "    (if with no argument, behave like `id`)\n"+
		"    -c: (close input) do not read from input\n"+
		"    -F file: also read from `file`, optional\n")
}

func byteCount(opts codec.Options) (int64, error) {
	n, err := opts.Int("B", 0)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, errors.Wrapf(codec.ErrInvalidOption, "-B: %d is negative", n)
	}

	return n, nil
}

func dropCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, _ codec.Mode, opts codec.Options, out io.Writer) error {
		n, err := byteCount(opts)
		if err != nil {
			return err
		}

		_, err = io.CopyN(io.Discard, in, n)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		_, err = io.Copy(out, in)

		return err
	}), "    -B count: drop at most first `count` bytes from input\n")
}

func takeCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, _ codec.Mode, opts codec.Options, out io.Writer) error {
		n, err := byteCount(opts)
		if err != nil {
			return err
		}

		_, err = io.CopyN(out, in, n)
		if errors.Is(err, io.EOF) {
			return nil
		}

		return err
	}), "    -B count: take up to first `count` bytes from input\n")
}

func sinkCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, _ codec.Mode, _ codec.Options, _ io.Writer) error {
		_, err := io.Copy(io.Discard, in)

		return err
	}), "    consume input and write nothing\n")
}

// fileCodec writes its input to the file named by -O. With passThrough the input
// is also copied to the output.
type fileCodec struct {
	passThrough bool
}

func (fc *fileCodec) Run(_ context.Context, in io.Reader, _ codec.Mode, opts codec.Options, out io.Writer) error {
	path, err := opts.Required("O", "output file")
	if err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if opts.Switch("a") {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	f, err := os.OpenFile(string(path), flags, 0o644)
	if err != nil {
		return errors.Wrap(err, "unable to open output file")
	}

	var dst io.Writer = f
	if fc.passThrough {
		dst = io.MultiWriter(f, out)
	}

	_, err = io.Copy(dst, in)
	if err != nil {
		f.Close()

		return err
	}

	return errors.Wrap(f.Close(), "unable to close output file")
}

func (fc *fileCodec) Usage() string {
	var sb bytes.Buffer

	if fc.passThrough {
		sb.WriteString("    copy input to `file` and to output\n")
	} else {
		sb.WriteString("    write input to `file` instead of output\n")
	}

	sb.WriteString("    -O file: output file\n    -a: append to `file` instead of truncating it\n")

	return sb.String()
}
