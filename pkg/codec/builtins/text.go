package builtins

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/askiada/go-codec/pkg/codec"
	"github.com/askiada/go-codec/pkg/codec/stream"
)

func hexCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, mode codec.Mode, opts codec.Options, out io.Writer) error {
		if mode == codec.Decode {
			return decodeGroups(in, out, stream.Funcs{TransformFunc: hexDecode}, false)
		}

		upper := opts.Switch("c")

		return encodeGroups(in, out, stream.Funcs{TransformFunc: func(carry []byte) ([]byte, []byte, error) {
			dst := make([]byte, hex.EncodedLen(len(carry)))
			hex.Encode(dst, carry)

			if upper {
				dst = bytes.ToUpper(dst)
			}

			return dst, nil, nil
		}})
	}), "    -c: use upper case letters\n")
}

func hexDecode(carry []byte) ([]byte, []byte, error) {
	head, tail := stream.SplitGroups(carry, 2)
	dst := make([]byte, hex.DecodedLen(len(head)))

	_, err := hex.Decode(dst, head)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid hex input")
	}

	return dst, tail, nil
}

func base64Encoding(opts codec.Options) (*base64.Encoding, bool) {
	enc := base64.StdEncoding
	if opts.Switch("u") {
		enc = base64.URLEncoding
	}

	noPadding := opts.Switch("p")
	if noPadding {
		enc = enc.WithPadding(base64.NoPadding)
	}

	return enc, noPadding
}

func base64Codec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, mode codec.Mode, opts codec.Options, out io.Writer) error {
		enc, noPadding := base64Encoding(opts)

		if mode == codec.Encode {
			return encodeGroups(in, out, stream.Funcs{
				TransformFunc: func(carry []byte) ([]byte, []byte, error) {
					head, tail := stream.SplitGroups(carry, 3)

					return []byte(enc.EncodeToString(head)), tail, nil
				},
				FinalizeFunc: func(carry []byte) ([]byte, error) {
					return []byte(enc.EncodeToString(carry)), nil
				},
			})
		}

		decode := func(b []byte) ([]byte, error) {
			dst := make([]byte, enc.DecodedLen(len(b)))

			n, err := enc.Decode(dst, b)
			if err != nil {
				return nil, errors.Wrap(err, "invalid base64 input")
			}

			return dst[:n], nil
		}

		return decodeGroups(in, out, stream.Funcs{
			TransformFunc: func(carry []byte) ([]byte, []byte, error) {
				head, tail := stream.SplitGroups(stripNewlines(carry), 4)

				emit, err := decode(head)

				return emit, tail, err
			},
			FinalizeFunc: decode,
		}, noPadding)
	}), "    -u: use url base64 instead\n    -p: do not use padding\n")
}

// stripNewlines removes line breaks in place.
func stripNewlines(b []byte) []byte {
	if bytes.IndexAny(b, "\r\n") < 0 {
		return b
	}

	out := b[:0]

	for _, c := range b {
		if c != '\n' && c != '\r' {
			out = append(out, c)
		}
	}

	return out
}

func urlCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, mode codec.Mode, opts codec.Options, out io.Writer) error {
		escape, unescape := url.QueryEscape, url.QueryUnescape
		if opts.Switch("p") {
			escape, unescape = url.PathEscape, url.PathUnescape
		}

		if mode == codec.Encode {
			return encodeGroups(in, out, stream.Funcs{TransformFunc: func(carry []byte) ([]byte, []byte, error) {
				return []byte(escape(string(carry))), nil, nil
			}})
		}

		return decodeGroups(in, out, stream.Funcs{TransformFunc: func(carry []byte) ([]byte, []byte, error) {
			cut := len(carry)
			// "%" and "%X" need more input.
			if i := bytes.LastIndexByte(carry, '%'); i >= 0 && i >= len(carry)-2 {
				cut = i
			}

			s, err := unescape(string(carry[:cut]))
			if err != nil {
				return nil, nil, errors.Wrap(err, "invalid url escaping")
			}

			return []byte(s), carry[cut:], nil
		}}, false)
	}), "    url query escape/unescape\n    -p: use path escape instead of query escape\n")
}

func escapeCodec() codec.Codec {
	return codec.WithUsage(codec.Func(func(_ context.Context, in io.Reader, mode codec.Mode, _ codec.Options, out io.Writer) error {
		if mode == codec.Encode {
			return encodeGroups(in, out, stream.Funcs{
				TransformFunc: func(carry []byte) ([]byte, []byte, error) {
					cut := completeRunes(carry)

					return quote(carry[:cut]), carry[cut:], nil
				},
				FinalizeFunc: func(carry []byte) ([]byte, error) {
					return quote(carry), nil
				},
			})
		}

		return decodeGroups(in, out, stream.Funcs{TransformFunc: unescape}, false)
	}), "    escape bytes the way Go string literals do, or unescape them\n")
}

// completeRunes returns the length of the prefix of b that does not end in the
// middle of a UTF-8 sequence.
func completeRunes(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}

		if !utf8.FullRune(b[i:]) {
			return i
		}

		break
	}

	return len(b)
}

func quote(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}

	q := strconv.QuoteToASCII(string(b))

	return []byte(q[1 : len(q)-1])
}

// escapeLen returns the length of the escape sequence starting at s[0] == '\\'.
func escapeLen(s []byte) int {
	if len(s) < 2 {
		return 2
	}

	switch c := s[1]; {
	case c == 'x':
		return 4
	case c == 'u':
		return 6
	case c == 'U':
		return 10
	case c >= '0' && c <= '7':
		return 4
	default:
		return 2
	}
}

func unescape(carry []byte) ([]byte, []byte, error) {
	out := make([]byte, 0, len(carry))
	i := 0

	for i < len(carry) {
		if carry[i] != '\\' {
			out = append(out, carry[i])
			i++

			continue
		}

		n := escapeLen(carry[i:])
		if i+n > len(carry) {
			break
		}

		value, multibyte, _, err := strconv.UnquoteChar(string(carry[i:i+n]), '"')
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid escape sequence %q", carry[i:i+n])
		}

		if multibyte {
			out = utf8.AppendRune(out, value)
		} else {
			out = append(out, byte(value))
		}

		i += n
	}

	return out, carry[i:], nil
}
