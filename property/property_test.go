package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtraj/trajlib/geometry"
)

func TestVariantAccessors(t *testing.T) {
	b := NewBool(true)
	v, err := b.Bool()
	require.NoError(t, err)
	assert.True(t, v)

	_, err = b.Double()
	assert.Error(t, err)
}

func TestIntWidensToDouble(t *testing.T) {
	p := NewInt(-7)
	assert.Equal(t, KindDouble, p.Kind())
	d, err := p.Double()
	require.NoError(t, err)
	assert.Equal(t, -7.0, d)
}

func TestVector3DVariant(t *testing.T) {
	p := NewVector3D(geometry.NewVector3D(1, 2, 3))
	v, err := p.Vector3D()
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3D(1, 2, 3), v)
}

func TestMapSetGet(t *testing.T) {
	m := NewMap()
	m.Set("mass", NewDouble(12.011))
	p, ok := m.Get("mass")
	assert.True(t, ok)
	d, _ := p.Double()
	assert.Equal(t, 12.011, d)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestMapClone(t *testing.T) {
	m := NewMap()
	m.Set("x", NewBool(true))
	c := m.Clone()
	c.Set("x", NewBool(false))

	orig, _ := m.Get("x")
	cv, _ := c.Get("x")
	ov, _ := orig.Bool()
	cvv, _ := cv.Bool()
	assert.True(t, ov)
	assert.False(t, cvv)
}
