// Package builtins provides the codecs every pipeline can use.
package builtins

import (
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/go-codec/pkg/codec"
	"github.com/askiada/go-codec/pkg/codec/stream"
)

// Names under which the codecs are registered.
const (
	ID       = "id"
	Repeat   = "repeat"
	Const    = "const"
	Append   = "append"
	Newline  = "newline"
	Cat      = "cat"
	Drop     = "drop"
	Take     = "take"
	Sink     = "sink"
	Tee      = "tee"
	Redirect = "redirect"

	Hex    = "hex"
	Base64 = "base64"
	URL    = "url"
	Escape = "escape"

	MD5     = "md5"
	SHA1    = "sha1"
	SHA256  = "sha256"
	SHA512  = "sha512"
	SM3     = "sm3"
	BLAKE2b = "blake2b"

	AESCBC   = "aes-cbc"
	AESECB   = "aes-ecb"
	RSACrypt = "rsa-crypt"
	RSASign  = "rsa-sign"

	Zlib   = "zlib"
	Gzip   = "gzip"
	Zstd   = "zstd"
	Snappy = "snappy"
	LZ4    = "lz4"

	System = "system"
	Usage  = "usage"
)

type entry struct {
	name  string
	codec codec.Codec
}

func entries() []entry {
	return []entry{
		{ID, idCodec()},
		{Repeat, repeatCodec()},
		{Const, constCodec()},
		{Append, appendCodec()},
		{Newline, newlineCodec()},
		{Cat, catCodec()},
		{Drop, dropCodec()},
		{Take, takeCodec()},
		{Sink, sinkCodec()},
		{Tee, &fileCodec{passThrough: true}},
		{Redirect, &fileCodec{}},

		{Hex, hexCodec()},
		{Base64, base64Codec()},
		{URL, urlCodec()},
		{Escape, escapeCodec()},

		{MD5, newHashCodec(MD5)},
		{SHA1, newHashCodec(SHA1)},
		{SHA256, newHashCodec(SHA256)},
		{SHA512, newHashCodec(SHA512)},
		{SM3, newHashCodec(SM3)},
		{BLAKE2b, newHashCodec(BLAKE2b)},

		{AESCBC, &aesCodec{cbc: true}},
		{AESECB, &aesCodec{}},
		{RSACrypt, &rsaCryptCodec{}},
		{RSASign, &rsaSignCodec{}},

		{Zlib, zlibCodec()},
		{Gzip, gzipCodec()},
		{Zstd, zstdCodec()},
		{Snappy, snappyCodec()},
		{LZ4, lz4Codec()},

		{System, systemCodec()},
		{Usage, &usageCodec{}},
	}
}

// Register adds every built-in codec to b.
func Register(b *codec.Builder) error {
	for _, e := range entries() {
		err := b.Register(e.name, e.codec)
		if err != nil {
			return errors.Wrap(err, "unable to register builtin codec")
		}
	}

	return nil
}

// NewRegistry returns a registry holding the built-in codecs.
func NewRegistry() (*codec.Registry, error) {
	b := codec.NewBuilder()

	err := Register(b)
	if err != nil {
		return nil, err
	}

	return b.Build(), nil
}

func encodeGroups(in io.Reader, out io.Writer, gc stream.GroupCodec) error {
	enc := stream.NewEncoder(out, gc)

	_, err := io.Copy(enc, in)
	if err != nil {
		return err
	}

	err = enc.Finalize()
	if err != nil {
		return err
	}

	return enc.Close()
}

func decodeGroups(in io.Reader, out io.Writer, gc stream.GroupCodec, needFinalize bool) error {
	_, err := io.Copy(out, stream.NewDecoder(in, gc).NeedFinalize(needFinalize))

	return err
}
