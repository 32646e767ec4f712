package codec

import (
	"strconv"

	"github.com/pkg/errors"
)

type optionValue struct {
	text   []byte
	isText bool
}

// Options holds the resolved options of one stage. A switch is present or absent,
// a value option carries bytes. The zero value is an empty set.
type Options struct {
	values map[string]optionValue
}

// NewOptions returns an empty option set.
func NewOptions() Options {
	return Options{values: map[string]optionValue{}}
}

// SetSwitch records a switch. A later Set* for the same name replaces it.
func (o *Options) SetSwitch(name string) {
	o.init()
	o.values[name] = optionValue{}
}

// SetText records a value option.
func (o *Options) SetText(name string, text []byte) {
	o.init()
	o.values[name] = optionValue{text: text, isText: true}
}

func (o *Options) init() {
	if o.values == nil {
		o.values = map[string]optionValue{}
	}
}

// Has reports whether an option with that name was given, of either kind.
func (o Options) Has(name string) bool {
	_, ok := o.values[name]

	return ok
}

// Switch reports whether the switch was given.
func (o Options) Switch(name string) bool {
	v, ok := o.values[name]

	return ok && !v.isText
}

// Text returns the value of a value option.
func (o Options) Text(name string) ([]byte, bool) {
	v, ok := o.values[name]
	if !ok || !v.isText {
		return nil, false
	}

	return v.text, true
}

// String is Text as a string.
func (o Options) String(name string) (string, bool) {
	b, ok := o.Text(name)

	return string(b), ok
}

// Required returns the value of a mandatory value option.
func (o Options) Required(name, desc string) ([]byte, error) {
	b, ok := o.Text(name)
	if !ok {
		return nil, errors.Wrapf(ErrMissingOption, "-%s (%s)", name, desc)
	}

	return b, nil
}

// Int parses a value option as a decimal integer, returning def when absent.
func (o Options) Int(name string, def int64) (int64, error) {
	s, ok := o.String(name)
	if !ok {
		return def, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidOption, "-%s: %q is not an integer", name, s)
	}

	return n, nil
}

// Len returns the number of options.
func (o Options) Len() int {
	return len(o.values)
}
