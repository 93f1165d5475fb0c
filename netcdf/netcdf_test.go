package netcdf

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFile is a growable in-memory io.ReadWriteSeeker, standing in for an
// *os.File so these tests need no real filesystem access.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.buf))
	}
	m.pos = base + offset
	return m.pos, nil
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func buildTestFile(t *testing.T) (*memFile, *File) {
	t.Helper()
	b := NewBuilder(CDF1)
	_, err := b.AddDimension("frame", 0)
	require.NoError(t, err)
	_, err = b.AddDimension("n", 4)
	require.NoError(t, err)
	b.AddGlobalAttribute(TextAttribute("title", "unit test"))
	require.NoError(t, b.AddVariable("fixed", TypeFloat, []string{"n"}, nil))
	require.NoError(t, b.AddVariable("data", TypeFloat, []string{"frame", "n"}, []Attribute{TextAttribute("units", "angstrom")}))

	mf := &memFile{}
	f, err := b.Finalize(mf)
	require.NoError(t, err)
	return mf, f
}

func TestFinalizeProducesValidHeader(t *testing.T) {
	_, f := buildTestFile(t)

	assert.Equal(t, CDF1, f.Version())
	n, ok := f.Dimension("n")
	require.True(t, ok)
	assert.Equal(t, 4, n)

	title, ok := f.Attribute("title")
	require.True(t, ok)
	assert.Equal(t, "unit test", title.Text)

	fixed, ok := f.Variable("fixed")
	require.True(t, ok)
	assert.False(t, fixed.IsRecord())
	assert.Equal(t, 16, fixed.VSize) // 4 floats * 4 bytes

	data, ok := f.Variable("data")
	require.True(t, ok)
	assert.True(t, data.IsRecord())
}

func TestWriteAndReadRecordRoundTrip(t *testing.T) {
	mf, f := buildTestFile(t)

	data, ok := f.Variable("data")
	require.True(t, ok)
	require.NoError(t, data.WriteFloats(0, []float32{1, 2, 3, 4}))
	require.NoError(t, data.WriteFloats(1, []float32{5, 6, 7, 8}))
	assert.Equal(t, 2, f.NumRecs())

	got0, err := data.ReadFloats(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, got0)

	got1, err := data.ReadFloats(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 6, 7, 8}, got1)

	reopened, err := Open(mf)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.NumRecs())
	reData, ok := reopened.Variable("data")
	require.True(t, ok)
	got1Again, err := reData.ReadFloats(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 6, 7, 8}, got1Again)
}

func TestNonRecordVariableReadWrite(t *testing.T) {
	_, f := buildTestFile(t)
	fixed, ok := f.Variable("fixed")
	require.True(t, ok)

	require.NoError(t, fixed.WriteFloats(0, []float32{9, 9, 9, 9}))
	got, err := fixed.ReadFloats(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{9, 9, 9, 9}, got)
}

func TestWriteRawWrongSizeFails(t *testing.T) {
	_, f := buildTestFile(t)
	data, ok := f.Variable("data")
	require.True(t, ok)
	err := data.WriteRaw(0, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestRecordGapRejected(t *testing.T) {
	_, f := buildTestFile(t)
	data, ok := f.Variable("data")
	require.True(t, ok)
	err := data.WriteFloats(5, []float32{1, 2, 3, 4})
	assert.Error(t, err)
}
