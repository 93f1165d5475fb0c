// Package bonds implements the VDW-radius distance heuristic of spec
// section 4.3: guess a Frame's bonds from atom types and positions, then
// drop spurious hydrogen-hydrogen bonds the distance test alone would keep.
//
// Grounded in the VMD-derived bond-guessing heuristic (same cutoff shape,
// same built-in element-radius table, same hydrogen-multiplicity
// post-pass) re-expressed against this module's Frame/Topology/
// periodictable types.
package bonds

import (
	"fmt"

	"github.com/chemtraj/trajlib/atom"
	"github.com/chemtraj/trajlib/config"
	"github.com/chemtraj/trajlib/connectivity"
	"github.com/chemtraj/trajlib/frame"
	"github.com/chemtraj/trajlib/trajerr"
	"github.com/chemtraj/trajlib/warnings"
)

var builtinRadius = map[string]float64{
	"H": 1.0,
	"C": 1.5,
	"O": 1.3,
	"N": 1.4,
	"S": 1.9,
	"F": 1.2,
}

const baseCutoff = 0.833
const cutoffScale = 1.2

// radiusOfAtom resolves the effective guessing radius for one atom: a
// "vdw_radius" property overrides the built-in table, which overrides
// reg's runtime atomic-data override (spec section 6.3's Configuration
// collaborator, consulted here when reg is non-nil), which overrides the
// static periodic table's VDW radius.
func radiusOfAtom(a *atom.Atom, reg *config.Registry) (float64, bool) {
	if a.Properties != nil {
		if p, ok := a.Properties.Get("vdw_radius"); ok {
			if d, err := p.Double(); err == nil {
				return d, true
			}
		}
	}
	if r, ok := builtinRadius[a.Type]; ok {
		return r, true
	}
	return a.VDWRadiusWith(reg)
}

// GuessBonds runs the distance heuristic over every atom pair in f and
// adds the resulting bonds to f.Topology, replacing none of the existing
// connectivity. Every atom's type must resolve to a known radius;
// otherwise GuessBonds fails with GenericError. Equivalent to
// GuessBondsWithRegistry(f, nil).
func GuessBonds(f *frame.Frame) error {
	return GuessBondsWithRegistry(f, nil)
}

// GuessBondsWithRegistry is GuessBonds, consulting reg's runtime atomic-
// data overrides for any atom type absent from the built-in table, ahead
// of the periodic table (spec section 6.3).
func GuessBondsWithRegistry(f *frame.Frame, reg *config.Registry) error {
	n := f.Size()
	radii := make([]float64, n)
	known := make([]bool, n)
	cutoff := baseCutoff

	atoms := f.Topology.Atoms()
	for i, a := range atoms {
		if r, ok := radiusOfAtom(a, reg); ok {
			radii[i] = r
			known[i] = true
			if r > cutoff {
				cutoff = r
			}
		}
	}
	cutoff *= cutoffScale

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !known[i] || !known[j] {
				return trajerr.GenericError("GuessBonds", fmt.Errorf("unknown VDW radius for atom %d or %d", i, j))
			}
			d, err := f.Distance(i, j)
			if err != nil {
				return err
			}
			sum := radii[i] + radii[j]
			if d > 0.03 && d < 0.6*sum && d < cutoff {
				if err := f.Topology.AddBond(i, j, connectivity.BondOrderSingle); err != nil {
					return err
				}
			}
		}
	}

	removeSpuriousHydrogenBonds(f)
	return nil
}

// removeSpuriousHydrogenBonds drops every bond between two hydrogens where
// at least one endpoint participates in more than one bond, per the VMD
// heuristic's post-pass.
func removeSpuriousHydrogenBonds(f *frame.Frame) {
	conn := f.Topology.Connectivity()
	atoms := f.Topology.Atoms()

	count := make(map[int]int)
	for _, b := range conn.Bonds() {
		count[b.I]++
		count[b.J]++
	}

	var toRemove [][2]int
	for _, b := range conn.Bonds() {
		if atoms[b.I].Type == "H" && atoms[b.J].Type == "H" {
			if count[b.I] > 1 || count[b.J] > 1 {
				toRemove = append(toRemove, [2]int{b.I, b.J})
			}
		}
	}
	for _, pair := range toRemove {
		conn.RemoveBond(pair[0], pair[1])
		warnings.Emit("GuessBonds", fmt.Sprintf("removed spurious H-H bond between atoms %d and %d", pair[0], pair[1]))
	}
}
