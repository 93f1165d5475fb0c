// Package config is the runtime atomic-data override collaborator of spec
// section 6.3, letting callers override periodictable entries without
// touching the static table. There is no file-based configuration system
// here — spec section 1 scopes configuration *loading* out, this package
// only covers the runtime override registry the core consumes.
package config

import "github.com/chemtraj/trajlib/periodictable"

// Registry holds runtime overrides of periodictable.Entry, keyed by atom
// type exactly as given (no case normalization, unlike periodictable.Lookup,
// since an override is an exact, user-chosen key).
type Registry struct {
	overrides map[string]periodictable.Entry
}

// NewRegistry builds an empty override registry.
func NewRegistry() *Registry {
	return &Registry{overrides: make(map[string]periodictable.Entry)}
}

// SetAtomData installs an override for the given atom type.
func (r *Registry) SetAtomData(atomType string, e periodictable.Entry) {
	r.overrides[atomType] = e
}

// AtomData returns the override for atomType if one was installed,
// otherwise falls back to periodictable.Lookup.
func (r *Registry) AtomData(atomType string) (periodictable.Entry, bool) {
	if e, ok := r.overrides[atomType]; ok {
		return e, true
	}
	return periodictable.Lookup(atomType)
}
