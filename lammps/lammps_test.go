package lammps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtraj/trajlib/atom"
	"github.com/chemtraj/trajlib/cell"
	"github.com/chemtraj/trajlib/format"
	"github.com/chemtraj/trajlib/frame"
	"github.com/chemtraj/trajlib/geometry"
)

const orthoDump = `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
2
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id type x y z
2 H 5 5 5
1 O 1 2 3
`

func TestReadsWrappedOrthorhombicAndReordersByID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.lammpstrj")
	require.NoError(t, os.WriteFile(path, []byte(orthoDump), 0644))

	traj, err := Open(path, format.ModeRead)
	require.NoError(t, err)
	defer traj.Close()

	assert.Equal(t, 1, traj.NSteps())

	fr := frame.New()
	require.NoError(t, traj.ReadStep(0, fr))
	assert.Equal(t, 2, fr.Size())

	a0, err := fr.Topology.Atom(0)
	require.NoError(t, err)
	assert.Equal(t, "O", a0.Type)
	assert.Equal(t, geometry.NewVector3D(1, 2, 3), fr.Positions[0])

	a1, err := fr.Topology.Atom(1)
	require.NoError(t, err)
	assert.Equal(t, "H", a1.Type)
	assert.Equal(t, geometry.NewVector3D(5, 5, 5), fr.Positions[1])
}

const scaledDump = `ITEM: TIMESTEP
1
ITEM: NUMBER OF ATOMS
1
ITEM: BOX BOUNDS pp pp pp
0 20
0 20
0 20
ITEM: ATOMS id type xs ys zs
1 C 0.5 0.25 0.0
`

func TestScaledPositionsMultiplyByCellMatrix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.lammpstrj")
	require.NoError(t, os.WriteFile(path, []byte(scaledDump), 0644))

	traj, err := Open(path, format.ModeRead)
	require.NoError(t, err)
	defer traj.Close()

	fr := frame.New()
	require.NoError(t, traj.ReadStep(0, fr))
	assert.Equal(t, geometry.NewVector3D(10, 5, 0), fr.Positions[0])
}

func TestPrefersUnwrappedOverWrappedWhenBothPresent(t *testing.T) {
	dump := `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
1
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id type x y z xu yu zu
1 C 1 1 1 11 1 1
`
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.lammpstrj")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0644))

	traj, err := Open(path, format.ModeRead)
	require.NoError(t, err)
	defer traj.Close()

	fr := frame.New()
	require.NoError(t, traj.ReadStep(0, fr))
	assert.Equal(t, geometry.NewVector3D(11, 1, 1), fr.Positions[0])
}

func TestWriteThenReadRoundTripsOrthoCellAndVelocities(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.lammpstrj")

	w, err := Open(path, format.ModeWrite)
	require.NoError(t, err)

	fr := frame.New()
	fr.EnableVelocities()
	for i := 0; i < 2; i++ {
		fr.AddAtom(atom.New("C", ""), geometry.NewVector3D(float64(i), 0, 0), geometry.NewVector3D(0, 0, float64(i)))
	}
	fr.Cell = cell.NewFromLengthsAngles(10, 10, 10, 90, 90, 90)
	fr.Step = 7
	require.NoError(t, w.Write(fr))
	require.NoError(t, w.Close())

	r, err := Open(path, format.ModeRead)
	require.NoError(t, err)
	defer r.Close()

	out := frame.New()
	require.NoError(t, r.ReadStep(0, out))
	assert.Equal(t, uint64(7), out.Step)
	assert.Equal(t, 2, out.Size())
	assert.True(t, out.HasVelocities())
	assert.Equal(t, geometry.NewVector3D(0, 0, 1), out.Velocities[1])
}
