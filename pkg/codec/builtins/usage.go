package builtins

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/askiada/go-codec/pkg/codec"
)

// usageCodec lists the registry it runs from, with the usage of each codec.
type usageCodec struct{}

func (*usageCodec) Run(context.Context, io.Reader, codec.Mode, codec.Options, io.Writer) error {
	return codec.ErrNeedsRegistry
}

func (*usageCodec) RunMeta(_ context.Context, _ io.Reader, _ codec.Mode, _ codec.Options, reg *codec.Registry, out io.Writer) error {
	var sb strings.Builder

	sb.WriteString("Available codecs:\n")

	for _, name := range reg.Names() {
		fmt.Fprintln(&sb, name)

		c, _ := reg.Lookup(name)
		if u, ok := c.(codec.Usager); ok {
			fmt.Fprintln(&sb, u.Usage())
		}
	}

	_, err := io.WriteString(out, sb.String())

	return err
}

func (*usageCodec) Usage() string {
	return "    list available codecs and their options\n"
}

var _ codec.MetaCodec = (*usageCodec)(nil)
