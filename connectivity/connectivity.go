package connectivity

import (
	"fmt"
	"sort"

	"github.com/chemtraj/trajlib/orderedset"
	"github.com/chemtraj/trajlib/trajerr"
)

// Connectivity holds the bond graph of a Topology plus the angles,
// dihedrals and impropers it implies. Angles/dihedrals/impropers are
// recomputed lazily from the bond set on first access after a mutation,
// per spec section 4.2 — using the same adjacency-list build as any other
// graph-traversal code, but fixed to this one bond->angle->dihedral
// pipeline instead of a general graph-traversal API.
type Connectivity struct {
	bonds     *orderedset.Set[Bond]
	order     map[Bond]BondOrder
	dirty     bool
	angles    *orderedset.Set[Angle]
	dihedrals *orderedset.Set[Dihedral]
	impropers *orderedset.Set[Improper]
}

// New builds an empty Connectivity.
func New() *Connectivity {
	return &Connectivity{
		bonds:     bondSet(),
		order:     make(map[Bond]BondOrder),
		dirty:     false,
		angles:    angleSet(),
		dihedrals: dihedralSet(),
		impropers: improperSet(),
	}
}

// AddBond records a bond between i and j with the given order. Adding an
// already-present bond leaves its order untouched. Self-bonds (i==j) are
// rejected.
func (c *Connectivity) AddBond(i, j AtomIdx, order BondOrder) error {
	b, err := NewBond(i, j)
	if err != nil {
		return err
	}
	_, inserted := c.bonds.Insert(b)
	if inserted {
		c.order[b] = order
		c.dirty = true
	}
	return nil
}

// RemoveBond removes the bond between i and j if present. Removing an
// absent bond is a no-op, not an error — this is the decided reading of
// the spec's open question on idempotent removal.
func (c *Connectivity) RemoveBond(i, j AtomIdx) {
	b, err := NewBond(i, j)
	if err != nil {
		return
	}
	if c.bonds.EraseValue(b) {
		delete(c.order, b)
		c.dirty = true
	}
}

// AtomRemoved shifts every bond index greater than removed down by one,
// matching Topology's atom-removal renumbering contract (spec section
// 3.7). It fails if any bond still references removed: the caller
// (Topology.RemoveAtom) must remove every incident bond first, mirroring
// the original's precondition that shifting indexes with a still-attached
// bond is a programmer error, not something to paper over silently.
func (c *Connectivity) AtomRemoved(removed AtomIdx) error {
	for _, b := range c.bonds.AsSlice() {
		if b.I == removed || b.J == removed {
			return trajerr.GenericError("Connectivity.AtomRemoved",
				fmt.Errorf("can not shift atomic indexes that still have a bond to atom %d", removed))
		}
	}
	shiftedBonds := bondSet()
	shiftedOrder := make(map[Bond]BondOrder)
	for _, b := range c.bonds.AsSlice() {
		nb := Bond{I: shiftIdx(b.I, removed), J: shiftIdx(b.J, removed)}
		shiftedBonds.Insert(nb)
		shiftedOrder[nb] = c.order[b]
	}
	c.bonds = shiftedBonds
	c.order = shiftedOrder
	c.dirty = true
	return nil
}

func shiftIdx(idx, removed int) int {
	if idx > removed {
		return idx - 1
	}
	return idx
}

// BondOrder returns the order of the bond between i and j, if it exists.
func (c *Connectivity) BondOrder(i, j AtomIdx) (BondOrder, bool) {
	b, err := NewBond(i, j)
	if err != nil {
		return BondOrderUnknown, false
	}
	o, ok := c.order[b]
	return o, ok
}

// Bonds returns the current bonds in canonical order.
func (c *Connectivity) Bonds() []Bond { return c.bonds.AsSlice() }

// BondOrders returns the bond orders parallel to, and index-aligned with,
// Bonds().
func (c *Connectivity) BondOrders() []BondOrder {
	bonds := c.bonds.AsSlice()
	out := make([]BondOrder, len(bonds))
	for i, b := range bonds {
		out[i] = c.order[b]
	}
	return out
}

// Angles returns every angle implied by the current bonds, recomputing
// first if the bond set has changed since the last recompute.
func (c *Connectivity) Angles() []Angle {
	c.ensureFresh()
	return c.angles.AsSlice()
}

// Dihedrals returns every dihedral implied by the current bonds,
// recomputing first if the bond set has changed since the last recompute.
func (c *Connectivity) Dihedrals() []Dihedral {
	c.ensureFresh()
	return c.dihedrals.AsSlice()
}

// Impropers returns every improper implied by the current bonds,
// recomputing first if the bond set has changed since the last recompute.
func (c *Connectivity) Impropers() []Improper {
	c.ensureFresh()
	return c.impropers.AsSlice()
}

func (c *Connectivity) ensureFresh() {
	if !c.dirty {
		return
	}
	c.recompute()
	c.dirty = false
}

// recompute rebuilds angles, dihedrals and impropers from the current
// bond set: an adjacency list keyed by atom index, angles from pairs of
// bonds sharing a central atom, dihedrals from angles extended by one more
// bond, and impropers from every 3-neighbor combination around atoms with
// three or more bonds.
func (c *Connectivity) recompute() {
	adj := c.adjacency()

	angles := angleSet()
	for j, neighbors := range adj {
		for x := 0; x < len(neighbors); x++ {
			for y := x + 1; y < len(neighbors); y++ {
				if a, err := NewAngle(neighbors[x], j, neighbors[y]); err == nil {
					angles.Insert(a)
				}
			}
		}
	}

	dihedrals := dihedralSet()
	for _, a := range angles.AsSlice() {
		for _, l := range adj[a.K] {
			if l == a.J || l == a.I {
				continue
			}
			if d, err := NewDihedral(a.I, a.J, a.K, l); err == nil {
				dihedrals.Insert(d)
			}
		}
		for _, h := range adj[a.I] {
			if h == a.J || h == a.K {
				continue
			}
			if d, err := NewDihedral(h, a.I, a.J, a.K); err == nil {
				dihedrals.Insert(d)
			}
		}
	}

	impropers := improperSet()
	for j, neighbors := range adj {
		if len(neighbors) < 3 {
			continue
		}
		for x := 0; x < len(neighbors); x++ {
			for y := x + 1; y < len(neighbors); y++ {
				for z := y + 1; z < len(neighbors); z++ {
					if imp, err := NewImproper(j, neighbors[x], neighbors[y], neighbors[z]); err == nil {
						impropers.Insert(imp)
					}
				}
			}
		}
	}

	c.angles = angles
	c.dihedrals = dihedrals
	c.impropers = impropers
}

// adjacency builds a sorted neighbor list per atom index from the current
// bonds, shaped like a typical adjacencyList[from][to] map but flattened
// to plain index slices since Connectivity has no notion of edge weight
// or direction.
func (c *Connectivity) adjacency() map[AtomIdx][]AtomIdx {
	adj := make(map[AtomIdx][]AtomIdx)
	for _, b := range c.bonds.AsSlice() {
		adj[b.I] = append(adj[b.I], b.J)
		adj[b.J] = append(adj[b.J], b.I)
	}
	for k := range adj {
		sort.Ints(adj[k])
	}
	return adj
}
