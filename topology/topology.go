// Package topology implements Topology (spec section 3.7): the dense atom
// list, the Connectivity cache, the residue list, and the atom-to-residue
// membership map, with the index-shifting contract that keeps all three in
// sync when an atom is removed.
//
// Removal follows the same validate-then-rewrite-every-referencing-
// structure shape used by vertex removal in an adjacency-list graph, but
// shifts indices down instead of deleting by key, since atom identity
// here is positional rather than a string id.
package topology

import (
	"fmt"

	"github.com/chemtraj/trajlib/atom"
	"github.com/chemtraj/trajlib/connectivity"
	"github.com/chemtraj/trajlib/pdbconn"
	"github.com/chemtraj/trajlib/residue"
	"github.com/chemtraj/trajlib/trajerr"
)

// Topology owns the atom list, the bond/angle/dihedral/improper cache, and
// the residue partition of a Frame.
type Topology struct {
	atoms       []*atom.Atom
	conn        *connectivity.Connectivity
	residues    []*residue.Residue
	atomResidue map[int]int
}

// New builds an empty Topology.
func New() *Topology {
	return &Topology{
		conn:        connectivity.New(),
		atomResidue: make(map[int]int),
	}
}

// Size returns the number of atoms.
func (t *Topology) Size() int { return len(t.atoms) }

// Atoms returns the dense atom list. The returned slice must not be
// mutated by the caller.
func (t *Topology) Atoms() []*atom.Atom { return t.atoms }

// Atom returns the atom at index i.
func (t *Topology) Atom(i int) (*atom.Atom, error) {
	if i < 0 || i >= len(t.atoms) {
		return nil, trajerr.OutOfBounds("Topology.Atom", fmt.Errorf("index %d out of range [0,%d)", i, len(t.atoms)))
	}
	return t.atoms[i], nil
}

// AddAtom appends a to the dense atom list and returns its new index.
func (t *Topology) AddAtom(a *atom.Atom) int {
	t.atoms = append(t.atoms, a)
	return len(t.atoms) - 1
}

// Connectivity returns the bond/angle/dihedral/improper cache.
func (t *Topology) Connectivity() *connectivity.Connectivity { return t.conn }

// AddBond validates both endpoints are in range, then delegates to
// Connectivity.AddBond.
func (t *Topology) AddBond(i, j int, order connectivity.BondOrder) error {
	if err := t.checkIndex("Topology.AddBond", i); err != nil {
		return err
	}
	if err := t.checkIndex("Topology.AddBond", j); err != nil {
		return err
	}
	return t.conn.AddBond(i, j, order)
}

// RemoveBond delegates to Connectivity.RemoveBond.
func (t *Topology) RemoveBond(i, j int) { t.conn.RemoveBond(i, j) }

func (t *Topology) checkIndex(op string, i int) error {
	if i < 0 || i >= len(t.atoms) {
		return trajerr.OutOfBounds(op, fmt.Errorf("atom index %d out of range [0,%d)", i, len(t.atoms)))
	}
	return nil
}

// Residues returns the residue list.
func (t *Topology) Residues() []*residue.Residue { return t.residues }

// AddResidue appends r and returns its new index.
func (t *Topology) AddResidue(r *residue.Residue) int {
	t.residues = append(t.residues, r)
	return len(t.residues) - 1
}

// ResidueOf returns the residue index owning atom i, if assigned.
func (t *Topology) ResidueOf(atomIdx int) (int, bool) {
	idx, ok := t.atomResidue[atomIdx]
	return idx, ok
}

// AssignResidue places atom atomIdx into residue residueIdx, enforcing
// that an atom belongs to at most one residue: if atomIdx was previously
// assigned elsewhere, it is removed from that residue first.
func (t *Topology) AssignResidue(atomIdx, residueIdx int) error {
	if err := t.checkIndex("Topology.AssignResidue", atomIdx); err != nil {
		return err
	}
	if residueIdx < 0 || residueIdx >= len(t.residues) {
		return trajerr.OutOfBounds("Topology.AssignResidue", fmt.Errorf("residue index %d out of range [0,%d)", residueIdx, len(t.residues)))
	}
	if prev, ok := t.atomResidue[atomIdx]; ok {
		if prev == residueIdx {
			return nil
		}
		t.residues[prev].RemoveAtom(atomIdx)
	}
	t.residues[residueIdx].AddAtom(atomIdx)
	t.atomResidue[atomIdx] = residueIdx
	return nil
}

// RemoveAtom deletes atom i and shifts every higher atom index down by one
// across the atom list, the connectivity cache, every residue's atom set,
// and the atom-to-residue map, per spec section 3.7. O(n).
func (t *Topology) RemoveAtom(i int) error {
	if err := t.checkIndex("Topology.RemoveAtom", i); err != nil {
		return err
	}

	t.atoms = append(t.atoms[:i], t.atoms[i+1:]...)

	for _, b := range append([]connectivity.Bond(nil), t.conn.Bonds()...) {
		if b.I == i || b.J == i {
			t.conn.RemoveBond(b.I, b.J)
		}
	}
	if err := t.conn.AtomRemoved(i); err != nil {
		return err
	}

	for _, r := range t.residues {
		r.ShiftDown(i)
	}

	shifted := make(map[int]int, len(t.atomResidue))
	for a, r := range t.atomResidue {
		switch {
		case a == i:
			continue
		case a > i:
			shifted[a-1] = r
		default:
			shifted[a] = r
		}
	}
	t.atomResidue = shifted
	return nil
}

// SynthesizeResidueBonds adds the intra-residue bonds named in pdbconn's
// static residue-connectivity table for the residue at residueIdx,
// matching template atom names against this residue's own atom names.
// This is the PDBConnectivity collaborator of spec section 6.3: formats
// that carry residue names but no bond list (e.g. PDB ATOM records) call
// this once per residue to synthesize connectivity the file itself never
// states. A residue name with no known template, or a templated atom name
// absent from the residue (e.g. hydrogens a PDB file omits), is skipped
// rather than failing.
func (t *Topology) SynthesizeResidueBonds(residueIdx int) error {
	if residueIdx < 0 || residueIdx >= len(t.residues) {
		return trajerr.OutOfBounds("Topology.SynthesizeResidueBonds", fmt.Errorf("residue index %d out of range [0,%d)", residueIdx, len(t.residues)))
	}
	r := t.residues[residueIdx]
	tmpl, ok := pdbconn.ResidueTemplate(r.Name)
	if !ok {
		return nil
	}
	byName := make(map[string]int, r.Size())
	for _, idx := range r.Atoms() {
		if idx >= 0 && idx < len(t.atoms) {
			byName[t.atoms[idx].Name] = idx
		}
	}
	for _, b := range tmpl {
		i, ok1 := byName[b.A]
		j, ok2 := byName[b.B]
		if !ok1 || !ok2 {
			continue
		}
		if err := t.AddBond(i, j, connectivity.BondOrderSingle); err != nil {
			return err
		}
	}
	return nil
}
