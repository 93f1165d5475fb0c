// Package frame implements Frame (spec section 3.9): one trajectory step's
// worth of state — positions, optional velocities, the owning Topology, a
// UnitCell, and a property map — plus the periodic geometric operators
// (distance, angle, dihedral, out-of-plane) read formats and analyses
// actually need.
//
// The operator formulas follow the standard distance/angle/dihedral/
// out-of-plane conventions used across molecular-simulation tooling,
// expressed here with this package's own u/v/w naming rather than the
// rij/rkj/rjk/rkm notation common in the literature.
package frame

import (
	"fmt"
	"math"

	"github.com/chemtraj/trajlib/atom"
	"github.com/chemtraj/trajlib/cell"
	"github.com/chemtraj/trajlib/geometry"
	"github.com/chemtraj/trajlib/property"
	"github.com/chemtraj/trajlib/topology"
	"github.com/chemtraj/trajlib/trajerr"
)

// Frame is one trajectory step.
type Frame struct {
	Step       uint64
	Positions  []geometry.Vector3D
	Velocities []geometry.Vector3D // nil when velocities are not enabled
	Topology   *topology.Topology
	Cell       cell.UnitCell
	Properties *property.Map
}

// New builds an empty Frame with an infinite cell and no velocities.
func New() *Frame {
	return &Frame{
		Topology:   topology.New(),
		Cell:       cell.NewInfinite(),
		Properties: property.NewMap(),
	}
}

// NewWithCell builds an empty Frame with the given starting cell.
func NewWithCell(c cell.UnitCell) *Frame {
	f := New()
	f.Cell = c
	return f
}

// Size returns the number of atoms (equivalently, positions).
func (f *Frame) Size() int { return len(f.Positions) }

// HasVelocities reports whether this frame tracks velocities.
func (f *Frame) HasVelocities() bool { return f.Velocities != nil }

// EnableVelocities allocates a zero-filled velocity array sized to the
// current position count, if not already enabled.
func (f *Frame) EnableVelocities() {
	if f.Velocities != nil {
		return
	}
	f.Velocities = make([]geometry.Vector3D, len(f.Positions))
}

// Resize trims or zero-extends positions (and velocities, if enabled) to
// length n, and shrinks the topology to match when n is smaller.
func (f *Frame) Resize(n int) {
	f.Positions = resizeVectors(f.Positions, n)
	if f.Velocities != nil {
		f.Velocities = resizeVectors(f.Velocities, n)
	}
	for f.Topology.Size() > n {
		_ = f.Topology.RemoveAtom(f.Topology.Size() - 1)
	}
	for f.Topology.Size() < n {
		f.Topology.AddAtom(atom.New(fmt.Sprintf("X%d", f.Topology.Size()), ""))
	}
}

func resizeVectors(v []geometry.Vector3D, n int) []geometry.Vector3D {
	if n <= len(v) {
		return v[:n]
	}
	out := make([]geometry.Vector3D, n)
	copy(out, v)
	return out
}

// AddAtom appends a with position pos. vel is ignored when velocities are
// not enabled on this frame.
func (f *Frame) AddAtom(a *atom.Atom, pos geometry.Vector3D, vel geometry.Vector3D) {
	f.Topology.AddAtom(a)
	f.Positions = append(f.Positions, pos)
	if f.Velocities != nil {
		f.Velocities = append(f.Velocities, vel)
	}
}

// Remove deletes atom i from positions, velocities (if enabled) and the
// topology, and notifies Connectivity of the removal. O(n).
func (f *Frame) Remove(i int) error {
	if i < 0 || i >= len(f.Positions) {
		return trajerr.OutOfBounds("Frame.Remove", fmt.Errorf("index %d out of range [0,%d)", i, len(f.Positions)))
	}
	f.Positions = append(f.Positions[:i], f.Positions[i+1:]...)
	if f.Velocities != nil {
		f.Velocities = append(f.Velocities[:i], f.Velocities[i+1:]...)
	}
	return f.Topology.RemoveAtom(i)
}

func (f *Frame) checkIdx(op string, idx ...int) error {
	for _, i := range idx {
		if i < 0 || i >= len(f.Positions) {
			return trajerr.OutOfBounds(op, fmt.Errorf("index %d out of range [0,%d)", i, len(f.Positions)))
		}
	}
	return nil
}

// Distance returns |wrap(p_i - p_j)|.
func (f *Frame) Distance(i, j int) (float64, error) {
	if err := f.checkIdx("Frame.Distance", i, j); err != nil {
		return 0, err
	}
	u := f.Cell.Wrap(f.Positions[i].Sub(f.Positions[j]))
	return u.Norm(), nil
}

// Angle returns the angle i-j-k in radians, with j the vertex.
func (f *Frame) Angle(i, j, k int) (float64, error) {
	if err := f.checkIdx("Frame.Angle", i, j, k); err != nil {
		return 0, err
	}
	u := f.Cell.Wrap(f.Positions[i].Sub(f.Positions[j]))
	v := f.Cell.Wrap(f.Positions[k].Sub(f.Positions[j]))
	cosTheta := u.Dot(v) / (u.Norm() * v.Norm())
	return math.Acos(clamp(cosTheta, -1, 1)), nil
}

// Dihedral returns the dihedral angle i-j-k-l in radians.
func (f *Frame) Dihedral(i, j, k, l int) (float64, error) {
	if err := f.checkIdx("Frame.Dihedral", i, j, k, l); err != nil {
		return 0, err
	}
	u := f.Cell.Wrap(f.Positions[i].Sub(f.Positions[j]))
	v := f.Cell.Wrap(f.Positions[j].Sub(f.Positions[k]))
	w := f.Cell.Wrap(f.Positions[k].Sub(f.Positions[l]))
	a := u.Cross(v)
	b := v.Cross(w)
	return math.Atan2(v.Norm()*b.Dot(u), a.Dot(b)), nil
}

// OutOfPlane returns the distance from atom j to the plane through atoms
// i, k, l. Returns 0 if i, k, l are (nearly) colinear.
func (f *Frame) OutOfPlane(i, j, k, l int) (float64, error) {
	if err := f.checkIdx("Frame.OutOfPlane", i, j, k, l); err != nil {
		return 0, err
	}
	rik := f.Cell.Wrap(f.Positions[k].Sub(f.Positions[i]))
	ril := f.Cell.Wrap(f.Positions[l].Sub(f.Positions[i]))
	normal := rik.Cross(ril)
	normalNorm := normal.Norm()
	if normalNorm < 1e-12 {
		return 0, nil
	}
	rij := f.Cell.Wrap(f.Positions[j].Sub(f.Positions[i]))
	return math.Abs(rij.Dot(normal)) / normalNorm, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
