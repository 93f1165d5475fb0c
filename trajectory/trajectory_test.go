package trajectory

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

	_ "github.com/chemtraj/trajlib/xyz"
)

func TestOpenResolvesByExtensionAndRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "water.xyz")

	w, err := Open(path, format.ModeWrite)
	require.NoError(t, err)
	fr := frame.New()
	fr.AddAtom(atom.New("O", ""), geometry.NewVector3D(0, 0, 0), geometry.Zero3D)
	require.NoError(t, w.Write(fr))
	require.NoError(t, w.Close())

	r, err := Open(path, format.ModeRead)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 1, r.NSteps())
	assert.Equal(t, "XYZ", r.Metadata().Name)

	out, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, out.Size())
}

// Scenario F: opening with format="XYX" fails mentioning "did you mean
// 'XYZ'?".
func TestOpenUnknownFormatSuggestsClosest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anything.dat")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	_, err := Open(path, format.ModeRead, WithFormat("XYX"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean 'XYZ'?")
}

func TestReadStepResetsStepCounter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.xyz")

	w, err := Open(path, format.ModeWrite)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		fr := frame.New()
		fr.AddAtom(atom.New("C", ""), geometry.NewVector3D(float64(i), 0, 0), geometry.Zero3D)
		require.NoError(t, w.Write(fr))
	}
	require.NoError(t, w.Close())

	r, err := Open(path, format.ModeRead)
	require.NoError(t, err)
	defer r.Close()

	fr, err := r.ReadStep(1)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3D(1, 0, 0), fr.Positions[0])

	next, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3D(2, 0, 0), next.Positions[0])
}

// Testable property 9: two independent Trajectory instances opened
// against two different files never observe each other's step counters
// or file handles.
func TestIndependentInstancesDoNotShareState(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.xyz")
	pathB := filepath.Join(dir, "b.xyz")

	for _, p := range []string{pathA, pathB} {
		w, err := Open(p, format.ModeWrite)
		require.NoError(t, err)
		fr := frame.New()
		fr.AddAtom(atom.New("C", ""), geometry.Zero3D, geometry.Zero3D)
		require.NoError(t, w.Write(fr))
		require.NoError(t, w.Write(fr))
		require.NoError(t, w.Close())
	}

	ta, err := Open(pathA, format.ModeRead)
	require.NoError(t, err)
	defer ta.Close()
	tb, err := Open(pathB, format.ModeRead)
	require.NoError(t, err)
	defer tb.Close()

	_, err = ta.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, ta.cursor)
	assert.Equal(t, 0, tb.cursor)

	_, err = tb.ReadStep(1)
	require.NoError(t, err)
	assert.Equal(t, 2, tb.cursor)
	assert.Equal(t, 1, ta.cursor)
}

func TestWriteFailsOnReadOnlyTrajectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ro.xyz")
	require.NoError(t, os.WriteFile(path, []byte("0\n\n"), 0644))

	r, err := Open(path, format.ModeRead)
	require.NoError(t, err)
	defer r.Close()

	err = r.Write(frame.New())
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.xyz")
	w, err := Open(path, format.ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
