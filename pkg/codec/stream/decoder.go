package stream

import (
	"io"

	"github.com/pkg/errors"
)

// ReadSize is the size of the raw chunks a Decoder pulls from its source.
const ReadSize = 1024

// Decoder is a reader that runs a GroupCodec over its source.
type Decoder struct {
	r            io.Reader
	codec        GroupCodec
	needFinalize bool
	finalized    bool

	raw   []byte
	carry []byte
	out   []byte
	off   int
	err   error
}

// NewDecoder returns a Decoder reading from r. Trailing bytes left at EOF are an
// integrity error unless NeedFinalize is set.
func NewDecoder(r io.Reader, c GroupCodec) *Decoder {
	return &Decoder{r: r, codec: c, raw: make([]byte, ReadSize)}
}

// NeedFinalize makes the decoder call the codec's finalizer on a non-empty carry at EOF.
func (d *Decoder) NeedFinalize(v bool) *Decoder {
	d.needFinalize = v

	return d
}

// Read returns decoded bytes.
func (d *Decoder) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for d.off >= len(d.out) {
		if d.err != nil {
			return 0, d.err
		}

		d.fill()
	}

	n := copy(p, d.out[d.off:])
	d.off += n

	return n, nil
}

func (d *Decoder) fill() {
	d.out = d.out[:0]
	d.off = 0

	n, err := d.r.Read(d.raw)
	if n > 0 {
		d.carry = append(d.carry, d.raw[:n]...)

		emit, rem, terr := d.codec.Transform(d.carry)
		if terr != nil {
			d.err = terr

			return
		}

		d.out = append(d.out, emit...)

		d.carry, terr = compact(d.carry, rem)
		if terr != nil {
			d.err = terr

			return
		}
	}

	switch {
	case errors.Is(err, io.EOF):
		d.err = d.finish()
	case err != nil:
		d.err = err
	}
}

func (d *Decoder) finish() error {
	if len(d.carry) == 0 {
		return io.EOF
	}

	if !d.needFinalize {
		return errors.Wrapf(ErrStreamIntegrity, "%d trailing bytes", len(d.carry))
	}

	if d.finalized {
		return ErrFinalized
	}

	d.finalized = true

	emit, err := d.codec.Finalize(d.carry)
	if err != nil {
		return err
	}

	d.carry = d.carry[:0]
	d.out = append(d.out, emit...)

	return io.EOF
}

var _ io.Reader = (*Decoder)(nil)
