package stream

import (
	"io"

	"github.com/pkg/errors"
)

// Encoder is a writer that runs a GroupCodec over everything written to it and
// forwards the result to the underlying writer as soon as it is available.
type Encoder struct {
	w         io.Writer
	codec     GroupCodec
	carry     []byte
	finalized bool
	err       error
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, c GroupCodec) *Encoder {
	return &Encoder{w: w, codec: c}
}

// Write transforms p together with any pending bytes.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	if e.finalized {
		return 0, ErrFinalized
	}

	e.carry = append(e.carry, p...)

	emit, rem, err := e.codec.Transform(e.carry)
	if err != nil {
		e.err = err

		return 0, err
	}

	// emit may alias carry, write it before compacting.
	if len(emit) > 0 {
		if _, err := e.w.Write(emit); err != nil {
			e.err = err

			return 0, err
		}
	}

	e.carry, err = compact(e.carry, rem)
	if err != nil {
		e.err = err

		return 0, err
	}

	return len(p), nil
}

// Finalize hands the pending bytes to the codec's finalizer and writes the result.
// It runs the finalizer even when nothing is pending. It can be called once.
func (e *Encoder) Finalize() error {
	if e.err != nil {
		return e.err
	}

	if e.finalized {
		return ErrFinalized
	}

	e.finalized = true

	emit, err := e.codec.Finalize(e.carry)
	e.carry = e.carry[:0]

	if err != nil {
		e.err = err

		return err
	}

	if len(emit) > 0 {
		if _, err := e.w.Write(emit); err != nil {
			e.err = err

			return err
		}
	}

	return nil
}

// Pending returns the number of bytes waiting for a complete group.
func (e *Encoder) Pending() int {
	return len(e.carry)
}

// Close tears the encoder down. Closing with pending bytes that were never
// finalized loses data and panics.
func (e *Encoder) Close() error {
	if !e.finalized && len(e.carry) > 0 && e.err == nil {
		panic(errors.Errorf("stream: encoder closed with %d pending bytes", len(e.carry)))
	}

	return nil
}

var _ io.WriteCloser = (*Encoder)(nil)
