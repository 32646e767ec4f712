package builtins

import (
	"context"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/askiada/go-codec/pkg/codec"
)

// compressCodec streams through a compressor when encoding and a decompressor
// when decoding.
type compressCodec struct {
	defaultLevel int64
	newWriter    func(w io.Writer, level int64) (io.WriteCloser, error)
	newReader    func(r io.Reader) (io.ReadCloser, error)
	usage        string
}

func (cc *compressCodec) Run(_ context.Context, in io.Reader, mode codec.Mode, opts codec.Options, out io.Writer) error {
	if mode == codec.Decode {
		r, err := cc.newReader(in)
		if err != nil {
			return errors.Wrap(err, "unable to read compressed stream")
		}
		defer r.Close()

		_, err = io.Copy(out, r)

		return err
	}

	level, err := opts.Int("L", cc.defaultLevel)
	if err != nil {
		return err
	}

	w, err := cc.newWriter(out, level)
	if err != nil {
		return errors.Wrapf(codec.ErrInvalidOption, "-L %d: %v", level, err)
	}

	_, err = io.Copy(w, in)
	if err != nil {
		w.Close()

		return err
	}

	return w.Close()
}

func (cc *compressCodec) Usage() string {
	return cc.usage
}

func zlibCodec() codec.Codec {
	return &compressCodec{
		defaultLevel: zlib.DefaultCompression,
		newWriter: func(w io.Writer, level int64) (io.WriteCloser, error) {
			return zlib.NewWriterLevel(w, int(level))
		},
		newReader: zlib.NewReader,
		usage:     "    -L level: compress level (int, [-2, 9], default -1)\n",
	}
}

func gzipCodec() codec.Codec {
	return &compressCodec{
		defaultLevel: gzip.DefaultCompression,
		newWriter: func(w io.Writer, level int64) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, int(level))
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
		usage: "    -L level: compress level (int, [-3, 9], default -1)\n",
	}
}

func zstdCodec() codec.Codec {
	return &compressCodec{
		defaultLevel: 3,
		newWriter: func(w io.Writer, level int64) (io.WriteCloser, error) {
			if level < 1 || level > 22 {
				return nil, errors.New("zstd levels go from 1 to 22")
			}

			return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(int(level))))
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}

			return dec.IOReadCloser(), nil
		},
		usage: "    -L level: compress level (int, [1, 22], default 3)\n",
	}
}

func snappyCodec() codec.Codec {
	return &compressCodec{
		newWriter: func(w io.Writer, _ int64) (io.WriteCloser, error) {
			return snappy.NewBufferedWriter(w), nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(snappy.NewReader(r)), nil
		},
		usage: "    snappy framing format\n",
	}
}

var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

func lz4Codec() codec.Codec {
	return &compressCodec{
		newWriter: func(w io.Writer, level int64) (io.WriteCloser, error) {
			if level < 0 || level >= int64(len(lz4Levels)) {
				return nil, errors.New("lz4 levels go from 0 (fast) to 9")
			}

			zw := lz4.NewWriter(w)

			err := zw.Apply(lz4.CompressionLevelOption(lz4Levels[level]))
			if err != nil {
				return nil, err
			}

			return zw, nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(r)), nil
		},
		usage: "    -L level: compress level (int, [0, 9], 0 is fast, default 0)\n",
	}
}
