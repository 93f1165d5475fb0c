// Package residue implements the Residue type of spec section 3.6: a named
// group of atom indices with an optional numeric id and its own property
// map. The atom-index set is an orderedset.Set so membership is O(log n)
// and iteration is always in ascending index order, a deterministic-
// iteration contract narrowed to a standing invariant here.
package residue

import (
	"github.com/chemtraj/trajlib/orderedset"
	"github.com/chemtraj/trajlib/property"
)

func lessInt(a, b int) bool { return a < b }

// Residue is a named group of atom indices, e.g. one protein residue or
// one water molecule.
type Residue struct {
	Name       string
	id         *uint64
	atoms      *orderedset.Set[int]
	Properties *property.Map
}

// New builds an empty, id-less Residue named name.
func New(name string) *Residue {
	return &Residue{
		Name:       name,
		atoms:      orderedset.New(lessInt),
		Properties: property.NewMap(),
	}
}

// NewWithID builds a Residue with the given numeric id.
func NewWithID(name string, id uint64) *Residue {
	r := New(name)
	r.id = &id
	return r
}

// ID returns the residue's numeric id, if it has one.
func (r *Residue) ID() (uint64, bool) {
	if r.id == nil {
		return 0, false
	}
	return *r.id, true
}

// SetID sets the residue's numeric id.
func (r *Residue) SetID(id uint64) { r.id = &id }

// AddAtom inserts atom index i idempotently.
func (r *Residue) AddAtom(i int) {
	r.atoms.Insert(i)
}

// Contains reports whether atom index i belongs to this residue, in
// O(log n).
func (r *Residue) Contains(i int) bool {
	_, ok := r.atoms.Find(i)
	return ok
}

// Size returns the number of atoms in this residue.
func (r *Residue) Size() int { return r.atoms.Len() }

// Atoms returns the atom indices in ascending order. The returned slice
// must not be mutated by the caller.
func (r *Residue) Atoms() []int { return r.atoms.AsSlice() }

// RemoveAtom removes atom index i if present.
func (r *Residue) RemoveAtom(i int) {
	r.atoms.EraseValue(i)
}

// ShiftDown decrements every atom index greater than removed by one,
// matching Topology's atom-removal renumbering contract (spec section 3.7).
func (r *Residue) ShiftDown(removed int) {
	shifted := orderedset.New(lessInt)
	for _, idx := range r.atoms.AsSlice() {
		switch {
		case idx == removed:
			continue
		case idx > removed:
			shifted.Insert(idx - 1)
		default:
			shifted.Insert(idx)
		}
	}
	r.atoms = shifted
}
