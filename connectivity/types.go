// Package connectivity implements the Connectivity engine of spec section
// 3.8/4.2: canonical Bond/Angle/Dihedral/Improper representations, a
// per-bond order map reported index-aligned with the bond set, and the
// lazy angle/dihedral/improper recompute pipeline driven by an
// adjacency-list built from the current bonds.
//
// The adjacency-list recompute loop uses the same per-vertex neighbor
// enumeration shape common to adjacency-list graph traversal: here it
// enumerates angles from neighbor pairs, dihedrals from angles, and
// impropers from neighbor triples of atoms with three or more bonds,
// deterministically regardless of insertion order because every result
// lands in a canonically-ordered orderedset.Set.
package connectivity

import (
	"fmt"

	"github.com/chemtraj/trajlib/orderedset"
	"github.com/chemtraj/trajlib/trajerr"
)

// AtomIdx identifies an atom by its dense index within a Topology.
type AtomIdx = int

// BondOrder classifies a bond's formal order.
type BondOrder int

const (
	BondOrderUnknown BondOrder = iota
	BondOrderSingle
	BondOrderDouble
	BondOrderTriple
	BondOrderQuadruple
	BondOrderAromatic
	BondOrderAmide
)

// Bond is a canonical (min,max) atom-index pair. i==j is an invariant
// violation (spec section 3.8).
type Bond struct {
	I, J AtomIdx
}

// NewBond builds the canonical Bond(i,j), failing if i==j.
func NewBond(i, j AtomIdx) (Bond, error) {
	if i == j {
		return Bond{}, trajerr.GenericError("NewBond", fmt.Errorf("self-bond on atom %d", i))
	}
	if i > j {
		i, j = j, i
	}
	return Bond{I: i, J: j}, nil
}

func lessBond(a, b Bond) bool {
	if a.I != b.I {
		return a.I < b.I
	}
	return a.J < b.J
}

// Angle is canonically ordered (min(i,k), j, max(i,k)): j is always the
// central atom. Any pair of equal atoms is an invariant violation.
type Angle struct {
	I, J, K AtomIdx
}

// NewAngle builds the canonical Angle(i,j,k).
func NewAngle(i, j, k AtomIdx) (Angle, error) {
	if i == j || j == k || i == k {
		return Angle{}, trajerr.GenericError("NewAngle", fmt.Errorf("repeated atom in angle (%d,%d,%d)", i, j, k))
	}
	lo, hi := i, k
	if lo > hi {
		lo, hi = hi, lo
	}
	return Angle{I: lo, J: j, K: hi}, nil
}

func lessAngle(a, b Angle) bool {
	if a.I != b.I {
		return a.I < b.I
	}
	if a.J != b.J {
		return a.J < b.J
	}
	return a.K < b.K
}

// Dihedral stores the representative of (i,j,k,l) / (l,k,j,i) with
// max(i,j) < max(k,l); any repeated atom is an invariant violation.
type Dihedral struct {
	I, J, K, L AtomIdx
}

// NewDihedral builds the canonical Dihedral(i,j,k,l).
func NewDihedral(i, j, k, l AtomIdx) (Dihedral, error) {
	if hasRepeat4(i, j, k, l) {
		return Dihedral{}, trajerr.GenericError("NewDihedral", fmt.Errorf("repeated atom in dihedral (%d,%d,%d,%d)", i, j, k, l))
	}
	if maxOf(i, j) < maxOf(k, l) {
		return Dihedral{I: i, J: j, K: k, L: l}, nil
	}
	return Dihedral{I: l, J: k, K: j, L: i}, nil
}

func lessDihedral(a, b Dihedral) bool {
	if a.I != b.I {
		return a.I < b.I
	}
	if a.J != b.J {
		return a.J < b.J
	}
	if a.K != b.K {
		return a.K < b.K
	}
	return a.L < b.L
}

// Improper stores J as the central atom and I,K,L in ascending order.
type Improper struct {
	I, J, K, L AtomIdx
}

// NewImproper builds the canonical Improper with center j and the
// remaining three atoms sorted ascending.
func NewImproper(center, a, b, c AtomIdx) (Improper, error) {
	if hasRepeat4(center, a, b, c) {
		return Improper{}, trajerr.GenericError("NewImproper", fmt.Errorf("repeated atom in improper (center=%d,%d,%d,%d)", center, a, b, c))
	}
	rest := []int{a, b, c}
	sort3(rest)
	return Improper{I: rest[0], J: center, K: rest[1], L: rest[2]}, nil
}

func lessImproper(a, b Improper) bool {
	if a.J != b.J {
		return a.J < b.J
	}
	if a.I != b.I {
		return a.I < b.I
	}
	if a.K != b.K {
		return a.K < b.K
	}
	return a.L < b.L
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func hasRepeat4(i, j, k, l int) bool {
	vals := [4]int{i, j, k, l}
	for x := 0; x < 4; x++ {
		for y := x + 1; y < 4; y++ {
			if vals[x] == vals[y] {
				return true
			}
		}
	}
	return false
}

func sort3(s []int) {
	if s[0] > s[1] {
		s[0], s[1] = s[1], s[0]
	}
	if s[1] > s[2] {
		s[1], s[2] = s[2], s[1]
	}
	if s[0] > s[1] {
		s[0], s[1] = s[1], s[0]
	}
}

func bondSet() *orderedset.Set[Bond]           { return orderedset.New(lessBond) }
func angleSet() *orderedset.Set[Angle]         { return orderedset.New(lessAngle) }
func dihedralSet() *orderedset.Set[Dihedral]   { return orderedset.New(lessDihedral) }
func improperSet() *orderedset.Set[Improper]   { return orderedset.New(lessImproper) }
