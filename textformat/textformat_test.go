package textformat

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtraj/trajlib/format"
	"github.com/chemtraj/trajlib/frame"
)

// countingCodec is a minimal Codec for exercising the scaffold: each step
// is a single line "STEP <n>" followed by a blank line.
type countingCodec struct{}

func (countingCodec) ReadStep(lr *LineReader, fr *frame.Frame) error {
	line, err := lr.ReadLine()
	if err != nil {
		return err
	}
	var n int
	if _, err := fmt.Sscanf(line, "STEP %d", &n); err != nil {
		return err
	}
	if _, err := lr.ReadLine(); err != nil && err != io.EOF {
		return err
	}
	fr.Step = uint64(n)
	return nil
}

func (countingCodec) WriteStep(w io.Writer, fr *frame.Frame) error {
	_, err := fmt.Fprintf(w, "STEP %d\n\n", fr.Step)
	return err
}

func writeFile(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScanBuildsOffsetIndex(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "STEP 0\n\nSTEP 1\n\nSTEP 2\n\n")

	tf, err := Open(path, format.ModeRead, countingCodec{})
	require.NoError(t, err)
	defer tf.Close()

	assert.Equal(t, 3, tf.NSteps())

	var fr frame.Frame
	require.NoError(t, tf.ReadStep(2, &fr))
	assert.Equal(t, uint64(2), fr.Step)
	require.NoError(t, tf.ReadStep(0, &fr))
	assert.Equal(t, uint64(0), fr.Step)
}

func TestReadAdvancesCursor(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "STEP 10\n\nSTEP 20\n\n")

	tf, err := Open(path, format.ModeRead, countingCodec{})
	require.NoError(t, err)
	defer tf.Close()

	var fr frame.Frame
	require.NoError(t, tf.Read(&fr))
	assert.Equal(t, uint64(10), fr.Step)
	require.NoError(t, tf.Read(&fr))
	assert.Equal(t, uint64(20), fr.Step)
}

func TestReadStepOutOfBounds(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "STEP 0\n\n")

	tf, err := Open(path, format.ModeRead, countingCodec{})
	require.NoError(t, err)
	defer tf.Close()

	var fr frame.Frame
	assert.Error(t, tf.ReadStep(5, &fr))
}

func TestWriteModeWritesStep(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	tf, err := Open(path, format.ModeWrite, countingCodec{})
	require.NoError(t, err)
	defer tf.Close()

	fr := frame.New()
	fr.Step = 42
	require.NoError(t, tf.Write(fr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "STEP 42\n\n", string(data))
}

func TestAppendScansThenSeeksToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "STEP 0\n\n")

	tf, err := Open(path, format.ModeAppend, countingCodec{})
	require.NoError(t, err)
	assert.Equal(t, 1, tf.NSteps())

	fr := frame.New()
	fr.Step = 1
	require.NoError(t, tf.Write(fr))
	require.NoError(t, tf.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "STEP 0\n\nSTEP 1\n\n", string(data))
}
