// Package atom implements the Atom type of spec section 3.5: name, type,
// mass, charge, and a per-atom property map, with element data resolved
// from the periodictable collaborator (overridable per-atom via a
// "vdw_radius" property).
package atom

import (
	"github.com/chemtraj/trajlib/config"
	"github.com/chemtraj/trajlib/periodictable"
	"github.com/chemtraj/trajlib/property"
)

// Atom is one particle: its identity (name, type), its physical properties
// (mass, charge), and an open property map for format-specific extras.
type Atom struct {
	Name       string
	Type       string
	Mass       float64
	Charge     float64
	Properties *property.Map
}

// New builds an Atom. If typ is empty, Type defaults to name, per spec
// section 3.5.
func New(name, typ string) *Atom {
	if typ == "" {
		typ = name
	}
	return &Atom{Name: name, Type: typ, Properties: property.NewMap()}
}

// NewWithTable builds an Atom and fills Mass from the periodic table if
// found, leaving it zero otherwise (caller may still overwrite it).
func NewWithTable(name, typ string) *Atom {
	return NewWithRegistry(name, typ, nil)
}

// NewWithRegistry builds an Atom and fills Mass from reg's runtime atomic-
// data overrides if reg is non-nil and has one, falling back to the static
// periodic table otherwise. This is the Configuration collaborator of spec
// section 6.3 ("atom_data(type) so users can override the table at
// runtime") reaching the one place atom construction consults atomic data.
func NewWithRegistry(name, typ string, reg *config.Registry) *Atom {
	a := New(name, typ)
	if e, ok := lookupAtomData(a.Type, reg); ok {
		a.Mass = e.Mass
	}
	return a
}

func lookupAtomData(typ string, reg *config.Registry) (periodictable.Entry, bool) {
	if reg != nil {
		return reg.AtomData(typ)
	}
	return periodictable.Lookup(typ)
}

// AtomicNumber returns the periodic-table atomic number for this atom's
// type, if known.
func (a *Atom) AtomicNumber() (int, bool) { return a.AtomicNumberWith(nil) }

// AtomicNumberWith is AtomicNumber, consulting reg's runtime overrides
// first when reg is non-nil.
func (a *Atom) AtomicNumberWith(reg *config.Registry) (int, bool) {
	e, ok := lookupAtomData(a.Type, reg)
	if !ok {
		return 0, false
	}
	return e.Number, true
}

// CovalentRadius returns the periodic-table covalent radius for this
// atom's type, if known.
func (a *Atom) CovalentRadius() (float64, bool) { return a.CovalentRadiusWith(nil) }

// CovalentRadiusWith is CovalentRadius, consulting reg's runtime overrides
// first when reg is non-nil.
func (a *Atom) CovalentRadiusWith(reg *config.Registry) (float64, bool) {
	e, ok := lookupAtomData(a.Type, reg)
	if !ok {
		return 0, false
	}
	return e.CovalentRadius, true
}

// VDWRadius returns the effective Van der Waals radius: a user-set
// "vdw_radius" property overrides the periodic table, per spec section 3.5.
func (a *Atom) VDWRadius() (float64, bool) { return a.VDWRadiusWith(nil) }

// VDWRadiusWith is VDWRadius, consulting reg's runtime atomic-data
// overrides (spec section 6.3's Configuration collaborator) when the
// per-atom "vdw_radius" property is absent and reg is non-nil.
func (a *Atom) VDWRadiusWith(reg *config.Registry) (float64, bool) {
	if a.Properties != nil {
		if p, ok := a.Properties.Get("vdw_radius"); ok {
			if d, err := p.Double(); err == nil {
				return d, true
			}
		}
	}
	e, ok := lookupAtomData(a.Type, reg)
	if !ok {
		return 0, false
	}
	return e.VDWRadius, true
}

// Clone returns a deep-enough copy (Properties cloned, scalar fields
// copied by value).
func (a *Atom) Clone() *Atom {
	out := *a
	if a.Properties != nil {
		out.Properties = a.Properties.Clone()
	} else {
		out.Properties = property.NewMap()
	}
	return &out
}
