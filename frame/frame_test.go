package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtraj/trajlib/atom"
	"github.com/chemtraj/trajlib/geometry"
)

func TestResizeTrimsAndExtends(t *testing.T) {
	f := New()
	f.EnableVelocities()
	for i := 0; i < 3; i++ {
		f.AddAtom(atom.New("C", ""), geometry.NewVector3D(float64(i), 0, 0), geometry.Zero3D)
	}

	f.Resize(5)
	assert.Equal(t, 5, f.Size())
	assert.Equal(t, 5, f.Topology.Size())
	assert.Equal(t, 5, len(f.Velocities))

	f.Resize(1)
	assert.Equal(t, 1, f.Size())
	assert.Equal(t, 1, f.Topology.Size())
}

func TestAddAtomIgnoresVelocityWhenDisabled(t *testing.T) {
	f := New()
	f.AddAtom(atom.New("C", ""), geometry.Zero3D, geometry.NewVector3D(1, 1, 1))
	assert.False(t, f.HasVelocities())
	assert.Nil(t, f.Velocities)
}

func TestRemoveDeletesFromAllArrays(t *testing.T) {
	f := New()
	f.EnableVelocities()
	for i := 0; i < 3; i++ {
		f.AddAtom(atom.New("C", ""), geometry.NewVector3D(float64(i), 0, 0), geometry.NewVector3D(float64(i), 0, 0))
	}
	require.NoError(t, f.Remove(1))
	assert.Equal(t, 2, f.Size())
	assert.Equal(t, geometry.NewVector3D(0, 0, 0), f.Positions[0])
	assert.Equal(t, geometry.NewVector3D(2, 0, 0), f.Positions[1])
}

func TestDistanceAngleDihedral(t *testing.T) {
	f := New()
	f.AddAtom(atom.New("A", ""), geometry.NewVector3D(0, 0, 0), geometry.Zero3D)
	f.AddAtom(atom.New("B", ""), geometry.NewVector3D(1, 0, 0), geometry.Zero3D)
	f.AddAtom(atom.New("C", ""), geometry.NewVector3D(1, 1, 0), geometry.Zero3D)
	f.AddAtom(atom.New("D", ""), geometry.NewVector3D(1, 1, 1), geometry.Zero3D)

	d, err := f.Distance(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-9)

	ang, err := f.Angle(0, 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, ang, 1e-9)

	dih, err := f.Dihedral(0, 1, 2, 3)
	require.NoError(t, err)
	assert.InDelta(t, -math.Pi/2, dih, 1e-6)
}

func TestOutOfPlaneDegenerateReturnsZero(t *testing.T) {
	f := New()
	f.AddAtom(atom.New("A", ""), geometry.NewVector3D(0, 0, 0), geometry.Zero3D)
	f.AddAtom(atom.New("J", ""), geometry.NewVector3D(5, 5, 5), geometry.Zero3D)
	f.AddAtom(atom.New("K", ""), geometry.NewVector3D(1, 0, 0), geometry.Zero3D)
	f.AddAtom(atom.New("L", ""), geometry.NewVector3D(2, 0, 0), geometry.Zero3D)

	v, err := f.OutOfPlane(0, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestOutOfBoundsIndices(t *testing.T) {
	f := New()
	f.AddAtom(atom.New("A", ""), geometry.Zero3D, geometry.Zero3D)
	_, err := f.Distance(0, 5)
	assert.Error(t, err)
}
