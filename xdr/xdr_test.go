package xdr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt32RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf)
	require.NoError(t, f.WriteInt32(-12345))
	assert.Equal(t, 4, buf.Len())

	got, err := f.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-12345), got)
}

func TestFloat32ArrayRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf)
	data := []float32{1.5, -2.25, 0, 3.125}
	require.NoError(t, f.WriteFloat32Array(data))

	got, err := f.ReadFloat32Array(len(data))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFloat64RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf)
	require.NoError(t, f.WriteFloat64(3.14159265358979))
	got, err := f.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, 3.14159265358979, got)
}

func TestOpaquePadsToFourBytes(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf)
	require.NoError(t, f.WriteOpaque([]byte("abc")))
	assert.Equal(t, 4+4, buf.Len(), "4-byte length prefix + 3 bytes padded to 4")

	got, err := f.ReadOpaque()
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestGromacsStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf)
	require.NoError(t, f.WriteGromacsString("title"))

	got, err := f.ReadGromacsString()
	require.NoError(t, err)
	assert.Equal(t, "title", got)
}

func TestGromacsStringEncodingMatchesSpec(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf)
	require.NoError(t, f.WriteGromacsString("ab"))
	// length-including-NUL (3) as u32, then 2 bytes "ab", padded to a
	// 4-byte boundary (2 pad bytes).
	assert.Equal(t, []byte{0, 0, 0, 3, 'a', 'b', 0, 0}, buf.Bytes())
}
