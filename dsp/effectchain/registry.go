package effectchain

import (
	"errors"
	"fmt"

	"github.com/cwbudde/regionfx/dsp/core"
)

// ErrUnknownEffect is returned for effect codes or names with no registered
// factory. It wraps core.ErrInvalidParameter.
var ErrUnknownEffect = fmt.Errorf("unknown effect type: %w", core.ErrInvalidParameter)

var errDuplicateEffect = errors.New("duplicate effect type")

// Factory builds a descriptor from parameter overrides. Overrides have
// already been checked against the registered keys.
type Factory func(p Params) (Descriptor, error)

type entry struct {
	keys    []string
	factory Factory
}

// Registry maps kinds to descriptor factories.
type Registry struct {
	entries map[Kind]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Kind]entry)}
}

// Register adds a factory for kind accepting the listed parameter keys.
func (r *Registry) Register(kind Kind, keys []string, factory Factory) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownEffect, int(kind))
	}
	if factory == nil {
		return errors.New("nil factory")
	}
	if _, exists := r.entries[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, kind)
	}

	r.entries[kind] = entry{keys: append([]string(nil), keys...), factory: factory}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind Kind, keys []string, factory Factory) {
	if err := r.Register(kind, keys, factory); err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the factory for kind, or nil.
func (r *Registry) Lookup(kind Kind) Factory {
	return r.entries[kind].factory
}

// Keys returns the parameter keys kind accepts.
func (r *Registry) Keys(kind Kind) []string {
	return append([]string(nil), r.entries[kind].keys...)
}

// Build creates and validates a descriptor for kind from p.
func (r *Registry) Build(kind Kind, p Params) (Descriptor, error) {
	e, ok := r.entries[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, kind)
	}
	if err := p.check(kind, e.keys); err != nil {
		return nil, err
	}

	d, err := e.factory(p)
	if err != nil {
		return nil, fmt.Errorf("effectchain: build %s: %w", kind, err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("effectchain: build %s: %w", kind, err)
	}
	return d, nil
}
