package xyz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtraj/trajlib/atom"
	"github.com/chemtraj/trajlib/format"
	"github.com/chemtraj/trajlib/frame"
	"github.com/chemtraj/trajlib/geometry"
)

const sample = "3\nwater\nO 0.000000 0.000000 0.000000\nH 0.960000 0.000000 0.000000\nH -0.240000 0.930000 0.000000\n" +
	"3\nwater step 2\nO 0.100000 0.000000 0.000000\nH 1.060000 0.000000 0.000000\nH -0.140000 0.930000 0.000000\n"

func TestReadStepsAndRandomAccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "water.xyz")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	traj, err := Open(path, format.ModeRead)
	require.NoError(t, err)
	defer traj.Close()

	assert.Equal(t, 2, traj.NSteps())

	fr := frame.New()
	require.NoError(t, traj.ReadStep(1, fr))
	assert.Equal(t, 3, fr.Size())
	a, err := fr.Topology.Atom(0)
	require.NoError(t, err)
	assert.Equal(t, "O", a.Name)
	assert.Equal(t, geometry.NewVector3D(0.1, 0, 0), fr.Positions[0])

	require.NoError(t, traj.ReadStep(0, fr))
	assert.Equal(t, geometry.NewVector3D(0, 0, 0), fr.Positions[0])
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xyz")

	w, err := Open(path, format.ModeWrite)
	require.NoError(t, err)

	fr := frame.New()
	fr.AddAtom(atom.New("C", ""), geometry.NewVector3D(1, 2, 3), geometry.Zero3D)
	require.NoError(t, w.Write(fr))
	require.NoError(t, w.Close())

	r, err := Open(path, format.ModeRead)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 1, r.NSteps())

	out := frame.New()
	require.NoError(t, r.ReadStep(0, out))
	assert.Equal(t, geometry.NewVector3D(1, 2, 3), out.Positions[0])
}

func TestResolveByExtensionViaDefaultRegistry(t *testing.T) {
	_, md, err := format.DefaultRegistry().Resolve("", "xyz")
	require.NoError(t, err)
	assert.Equal(t, "XYZ", md.Name)
}

