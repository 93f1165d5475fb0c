package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtraj/trajlib/config"
	"github.com/chemtraj/trajlib/periodictable"
	"github.com/chemtraj/trajlib/property"
)

func TestTypeDefaultsToName(t *testing.T) {
	a := New("CA", "")
	assert.Equal(t, "CA", a.Type)
}

func TestNewWithTableFillsMass(t *testing.T) {
	a := NewWithTable("C1", "C")
	assert.InDelta(t, 12.011, a.Mass, 1e-6)
}

func TestVDWRadiusOverride(t *testing.T) {
	a := NewWithTable("O", "O")
	tableR, ok := a.VDWRadius()
	assert.True(t, ok)

	a.Properties.Set("vdw_radius", property.NewDouble(9.99))
	overridden, ok := a.VDWRadius()
	assert.True(t, ok)
	assert.Equal(t, 9.99, overridden)
	assert.NotEqual(t, tableR, overridden)
}

func TestNewWithRegistryUsesOverrideMass(t *testing.T) {
	reg := config.NewRegistry()
	reg.SetAtomData("ZZCUSTOM", periodictable.Entry{Mass: 42.0})

	a := NewWithRegistry("dummy", "ZZCUSTOM", reg)
	assert.Equal(t, 42.0, a.Mass)
}

func TestVDWRadiusWithFallsBackToRegistryThenTable(t *testing.T) {
	reg := config.NewRegistry()
	reg.SetAtomData("ZZCUSTOM", periodictable.Entry{VDWRadius: 7.5})
	a := New("dummy", "ZZCUSTOM")

	r, ok := a.VDWRadiusWith(reg)
	require.True(t, ok)
	assert.Equal(t, 7.5, r)

	// Without a registry, and with no table entry for this type, it's
	// unknown.
	_, ok = a.VDWRadius()
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	a := New("X", "X")
	a.Properties.Set("k", property.NewBool(true))
	c := a.Clone()
	c.Properties.Set("k", property.NewBool(false))

	p1, _ := a.Properties.Get("k")
	p2, _ := c.Properties.Get("k")
	v1, _ := p1.Bool()
	v2, _ := p2.Bool()
	assert.True(t, v1)
	assert.False(t, v2)
}
