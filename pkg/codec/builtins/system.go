package builtins

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-codec/pkg/codec"
)

// systemCodec streams its input through an external command.
func systemCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(ctx context.Context, in io.Reader, _ codec.Mode, opts codec.Options, out io.Writer) error {
		name, err := opts.Required("C", "command")
		if err != nil {
			return err
		}

		var args []string
		if raw, ok := opts.String("A"); ok {
			args = strings.Fields(raw)
		}

		cmd := exec.CommandContext(ctx, string(name), args...) //nolint:gosec

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		stdin, err := cmd.StdinPipe()
		if err != nil {
			return errors.Wrap(err, "unable to open command input")
		}

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return errors.Wrap(err, "unable to open command output")
		}

		err = cmd.Start()
		if err != nil {
			return errors.Wrapf(err, "unable to start %s", name)
		}

		errGrp := errgroup.Group{}
		errGrp.Go(func() error {
			defer stdin.Close()

			_, err := io.Copy(stdin, in)
			// The command may exit without reading all of its input.
			if isClosedPipe(err) {
				return nil
			}

			return err
		})
		errGrp.Go(func() error {
			_, err := io.Copy(out, stdout)
			if err != nil {
				// Unblock a command stuck writing to a full pipe.
				stdout.Close()
			}

			return err
		})

		copyErr := errGrp.Wait()
		err = cmd.Wait()

		if copyErr != nil {
			return copyErr
		}

		return errors.Wrapf(err, "%s: %s", name, strings.TrimSpace(stderr.String()))
	}), "    run an external command with input as its stdin\n    -C command\n    -A args: whitespace separated arguments\n")
}

func isClosedPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
