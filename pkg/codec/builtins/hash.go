package builtins

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"

	"github.com/emmansun/gmsm/sm3"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/askiada/go-codec/pkg/codec"
	"github.com/askiada/go-codec/pkg/codec/stream"
)

type hashCodec struct {
	name    string
	newHash func() (hash.Hash, error)
}

func newHashCodec(name string) *hashCodec {
	hc := &hashCodec{name: name}

	switch name {
	case MD5:
		hc.newHash = plainHash(md5.New)
	case SHA1:
		hc.newHash = plainHash(sha1.New)
	case SHA256:
		hc.newHash = plainHash(sha256.New)
	case SHA512:
		hc.newHash = plainHash(sha512.New)
	case SM3:
		hc.newHash = plainHash(sm3.New)
	case BLAKE2b:
		hc.newHash = func() (hash.Hash, error) { return blake2b.New256(nil) }
	}

	return hc
}

func plainHash(fn func() hash.Hash) func() (hash.Hash, error) {
	return func() (hash.Hash, error) { return fn(), nil }
}

// Run writes the raw digest of the whole input.
func (hc *hashCodec) Run(_ context.Context, in io.Reader, mode codec.Mode, _ codec.Options, out io.Writer) error {
	if mode == codec.Decode {
		return errors.Wrap(codec.ErrCannotDecode, hc.name)
	}

	h, err := hc.newHash()
	if err != nil {
		return errors.Wrapf(err, "unable to create %s digest", hc.name)
	}

	return encodeGroups(in, out, stream.Funcs{
		TransformFunc: func(carry []byte) ([]byte, []byte, error) {
			h.Write(carry)

			return nil, nil, nil
		},
		FinalizeFunc: func(carry []byte) ([]byte, error) {
			h.Write(carry)

			return h.Sum(nil), nil
		},
	})
}

func (hc *hashCodec) Usage() string {
	return "    calculate " + hc.name + " digest (raw bytes, pipe into hex to print)\n"
}
