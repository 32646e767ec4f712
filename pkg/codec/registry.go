package codec

import (
	"sync"

	"github.com/pkg/errors"
)

// Registry maps stage names to codecs. It has no mutating methods: once built it is
// shared by every stage goroutine without locking.
type Registry struct {
	names  []string
	codecs map[string]Codec
}

// Lookup returns the codec registered under name.
func (r *Registry) Lookup(name string) (Codec, bool) {
	if r == nil {
		return nil, false
	}

	c, ok := r.codecs[name]

	return c, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	names := make([]string, len(r.names))
	copy(names, r.names)

	return names
}

// Len returns the number of registered codecs.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.names)
}

// Builder collects registrations before publishing a Registry.
type Builder struct {
	mu    sync.Mutex
	reg   *Registry
	built bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{reg: &Registry{codecs: map[string]Codec{}}}
}

// Register adds a codec under name.
func (b *Builder) Register(name string, c Codec) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.built:
		return errors.Wrap(ErrRegistryBuilt, name)
	case name == "":
		return ErrEmptyName
	case c == nil:
		return errors.Wrap(ErrCodecMustBeSet, name)
	}

	if _, ok := b.reg.codecs[name]; ok {
		return errors.Wrap(ErrDuplicateName, name)
	}

	b.reg.names = append(b.reg.names, name)
	b.reg.codecs[name] = c

	return nil
}

// Build publishes the registry. Further registrations fail.
func (b *Builder) Build() *Registry {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.built = true

	return b.reg
}
