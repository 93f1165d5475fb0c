package amber

import (
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

func buildFrame(n int) *frame.Frame {
	f := frame.NewWithCell(cell.NewFromLengthsAngles(10, 10, 10, 90, 90, 90))
	for i := 0; i < n; i++ {
		f.AddAtom(atom.New("C", "C"), geometry.NewVector3D(float64(i), float64(i)*2, float64(i)*3), geometry.Vector3D{})
	}
	return f
}

func TestTrajectoryWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traj.nc")

	w, err := Open(path, format.ModeWrite, ConventionTrajectory)
	require.NoError(t, err)
	require.NoError(t, w.Write(buildFrame(3)))
	require.NoError(t, w.Write(buildFrame(3)))
	require.NoError(t, w.Close())

	r, err := Open(path, format.ModeRead, ConventionTrajectory)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 2, r.NSteps())

	got := frame.New()
	require.NoError(t, r.ReadStep(0, got))
	assert.Equal(t, 3, got.Size())
	assert.InDelta(t, 0, got.Positions[0][0], 1e-5)
	assert.InDelta(t, 1, got.Positions[1][0], 1e-5)

	got2 := frame.New()
	require.NoError(t, r.Read(got2))
	assert.Equal(t, 3, got2.Size())
}

func TestRestartSecondWriteFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restart.ncrst")

	w, err := Open(path, format.ModeWrite, ConventionRestart)
	require.NoError(t, err)
	require.NoError(t, w.Write(buildFrame(2)))
	err = w.Write(buildFrame(2))
	assert.Error(t, err)
	require.NoError(t, w.Close())
}

func TestRestartReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restart2.ncrst")
	w, err := Open(path, format.ModeWrite, ConventionRestart)
	require.NoError(t, err)
	require.NoError(t, w.Write(buildFrame(4)))
	require.NoError(t, w.Close())

	r, err := Open(path, format.ModeRead, ConventionRestart)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 1, r.NSteps())

	got := frame.New()
	require.NoError(t, r.Read(got))
	assert.Equal(t, 4, got.Size())

	err = r.Read(frame.New())
	assert.Error(t, err)
}

func TestRegisteredInDefaultRegistry(t *testing.T) {
	_, _, ok := format.DefaultRegistry().Lookup("AMBER")
	assert.True(t, ok)
	_, _, ok = format.DefaultRegistry().Lookup("AMBERRESTART")
	assert.True(t, ok)
}

func TestOpenReadMissingFileFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.nc"), format.ModeRead, ConventionTrajectory)
	assert.Error(t, err)
}
