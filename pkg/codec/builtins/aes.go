package builtins

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-codec/pkg/codec"
	"github.com/askiada/go-codec/pkg/codec/stream"
)

var (
	ErrInvalidKeyLength = errors.New("invalid key length")
	ErrInvalidIVLength  = errors.New("invalid iv length")
	ErrInvalidPadding   = errors.New("invalid padding")
	ErrNotBlockAligned  = errors.New("ciphertext is not a multiple of the block size")
)

// aesCodec encrypts with PKCS#7 padding in CBC or ECB mode.
type aesCodec struct {
	cbc bool
}

func (ac *aesCodec) Run(_ context.Context, in io.Reader, mode codec.Mode, opts codec.Options, out io.Writer) error {
	key, err := opts.Required("K", "key")
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return errors.Wrapf(ErrInvalidKeyLength, "%d bytes, want 16, 24 or 32", len(key))
	}

	bm, err := ac.blockMode(block, mode, opts)
	if err != nil {
		return err
	}

	if mode == codec.Encode {
		return encodeGroups(in, out, stream.Funcs{
			TransformFunc: func(carry []byte) ([]byte, []byte, error) {
				head, tail := stream.SplitGroups(carry, aes.BlockSize)
				bm.CryptBlocks(head, head)

				return head, tail, nil
			},
			FinalizeFunc: func(carry []byte) ([]byte, error) {
				last := pad(carry, aes.BlockSize)
				bm.CryptBlocks(last, last)

				return last, nil
			},
		})
	}

	// The last block is held back until EOF so its padding can be checked.
	return decodeGroups(in, out, stream.Funcs{
		TransformFunc: func(carry []byte) ([]byte, []byte, error) {
			head, tail := stream.SplitKeepLast(carry, aes.BlockSize)
			bm.CryptBlocks(head, head)

			return head, tail, nil
		},
		FinalizeFunc: func(carry []byte) ([]byte, error) {
			if len(carry) != aes.BlockSize {
				return nil, errors.Wrapf(ErrNotBlockAligned, "%d trailing bytes", len(carry))
			}

			bm.CryptBlocks(carry, carry)

			return unpad(carry, aes.BlockSize)
		},
	}, true)
}

func (ac *aesCodec) blockMode(block cipher.Block, mode codec.Mode, opts codec.Options) (cipher.BlockMode, error) {
	if !ac.cbc {
		if mode == codec.Decode {
			return ecbDecrypter{block}, nil
		}

		return ecbEncrypter{block}, nil
	}

	iv, err := opts.Required("IV", "iv")
	if err != nil {
		return nil, err
	}

	if len(iv) != block.BlockSize() {
		return nil, errors.Wrapf(ErrInvalidIVLength, "%d bytes, want %d", len(iv), block.BlockSize())
	}

	if mode == codec.Decode {
		return cipher.NewCBCDecrypter(block, iv), nil
	}

	return cipher.NewCBCEncrypter(block, iv), nil
}

func (ac *aesCodec) Usage() string {
	if ac.cbc {
		return "    -K key\n    -IV iv\n"
	}

	return "    -K key\n"
}

// pad returns a copy of b padded to a whole block.
func pad(b []byte, size int) []byte {
	n := size - len(b)%size

	return append(append(make([]byte, 0, len(b)+n), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, ErrInvalidPadding
	}

	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, ErrInvalidPadding
	}

	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrInvalidPadding
		}
	}

	return b[:len(b)-n], nil
}

type ecbEncrypter struct{ b cipher.Block }

func (e ecbEncrypter) BlockSize() int { return e.b.BlockSize() }

func (e ecbEncrypter) CryptBlocks(dst, src []byte) {
	size := e.b.BlockSize()
	for i := 0; i < len(src); i += size {
		e.b.Encrypt(dst[i:i+size], src[i:i+size])
	}
}

type ecbDecrypter struct{ b cipher.Block }

func (d ecbDecrypter) BlockSize() int { return d.b.BlockSize() }

func (d ecbDecrypter) CryptBlocks(dst, src []byte) {
	size := d.b.BlockSize()
	for i := 0; i < len(src); i += size {
		d.b.Decrypt(dst[i:i+size], src[i:i+size])
	}
}

var (
	_ cipher.BlockMode = ecbEncrypter{}
	_ cipher.BlockMode = ecbDecrypter{}
)
