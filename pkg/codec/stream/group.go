package stream

import "github.com/pkg/errors"

var (
	// ErrStreamIntegrity is returned when input ends with bytes that do not form a
	// complete group and the codec cannot finalize them.
	ErrStreamIntegrity = errors.New("stream integrity: incomplete trailing data")
	// ErrOverconsumed is returned when a mapping reports a remainder longer than its input.
	ErrOverconsumed = errors.New("mapping consumed more bytes than supplied")
	ErrFinalized    = errors.New("stream already finalized")
	ErrNoFinalizer  = errors.New("codec cannot finalize a partial group")
)

// GroupCodec maps the pending bytes of a stream to output.
//
// Transform receives every byte not yet consumed. It returns the bytes to emit and
// the unconsumed suffix to keep for the next call. Both may alias carry; carry is
// only reused after emit has been written.
//
// Finalize runs once at the end of a stream with whatever is left.
type GroupCodec interface {
	Transform(carry []byte) (emit, remainder []byte, err error)
	Finalize(carry []byte) (emit []byte, err error)
}

// Funcs builds a GroupCodec from functions. A nil FinalizeFunc accepts only an
// empty carry.
type Funcs struct {
	TransformFunc func(carry []byte) ([]byte, []byte, error)
	FinalizeFunc  func(carry []byte) ([]byte, error)
}

func (f Funcs) Transform(carry []byte) ([]byte, []byte, error) {
	return f.TransformFunc(carry)
}

func (f Funcs) Finalize(carry []byte) ([]byte, error) {
	if f.FinalizeFunc == nil {
		if len(carry) > 0 {
			return nil, errors.Wrapf(ErrNoFinalizer, "%d bytes left", len(carry))
		}

		return nil, nil
	}

	return f.FinalizeFunc(carry)
}

// SplitGroups splits b into its longest prefix made of whole groups of size n and the rest.
func SplitGroups(b []byte, n int) (head, tail []byte) {
	cut := len(b) - len(b)%n

	return b[:cut], b[cut:]
}

// SplitKeepLast is SplitGroups but always keeps at least one whole group in tail,
// for codecs that can only decide what to do with the last group at the end.
func SplitKeepLast(b []byte, n int) (head, tail []byte) {
	cut := len(b) - len(b)%n
	if cut == len(b) {
		cut -= n
	}

	if cut < 0 {
		cut = 0
	}

	return b[:cut], b[cut:]
}

// compact moves rem to the front of carry and returns the shortened carry.
func compact(carry, rem []byte) ([]byte, error) {
	if len(rem) > len(carry) {
		return carry, errors.Wrapf(ErrOverconsumed, "remainder %d > input %d", len(rem), len(carry))
	}

	n := copy(carry, rem)

	return carry[:n], nil
}

var _ GroupCodec = Funcs{}
