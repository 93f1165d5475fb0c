package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtraj/trajlib/geometry"
)

func TestShapeClassification(t *testing.T) {
	assert.Equal(t, Infinite, NewInfinite().Shape())
	assert.Equal(t, Orthorhombic, NewFromLengthsAngles(10, 10, 10, 90, 90, 90).Shape())
	assert.Equal(t, Triclinic, NewFromLengthsAngles(10, 10, 10, 90, 90, 60).Shape())
}

func TestLengthsAnglesRoundTrip(t *testing.T) {
	c := NewFromLengthsAngles(10, 12, 14, 80, 85, 60)
	a, b, cc := c.Lengths()
	assert.InDelta(t, 10, a, 1e-9)
	assert.InDelta(t, 12, b, 1e-9)
	assert.InDelta(t, 14, cc, 1e-9)

	alpha, beta, gamma := c.Angles()
	assert.InDelta(t, 80, alpha, 1e-6)
	assert.InDelta(t, 85, beta, 1e-6)
	assert.InDelta(t, 60, gamma, 1e-6)
}

func TestWrapInfiniteIsIdentity(t *testing.T) {
	c := NewInfinite()
	v := geometry.NewVector3D(5, -3, 100)
	assert.Equal(t, v, c.Wrap(v))
}

func TestWrapOrthorhombic(t *testing.T) {
	c := NewFromLengthsAngles(10, 10, 10, 90, 90, 90)
	wrapped := c.Wrap(geometry.NewVector3D(7, 0, 0))
	assert.InDelta(t, -3, wrapped[0], 1e-9)
}

// Scenario E (spec section 8): triclinic wrap never increases the norm,
// and wrap is periodic under integer lattice translations.
func TestWrapTriclinicScenarioE(t *testing.T) {
	c := NewFromLengthsAngles(10, 10, 10, 90, 90, 60)
	v := geometry.NewVector3D(7, 7, 0)
	wrapped := c.Wrap(v)
	assert.LessOrEqual(t, wrapped.Norm(), v.Norm()+1e-9)

	for _, n := range []geometry.Vector3D{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {-2, 3, -1},
	} {
		translated := v.Add(c.Cartesian(n))
		assert.InDelta(t, wrapped.Norm(), c.Wrap(translated).Norm(), 1e-7)
	}
}

func TestFractionalCartesianRoundTrip(t *testing.T) {
	c := NewFromLengthsAngles(10, 12, 14, 80, 85, 60)
	v := geometry.NewVector3D(3, 4, 5)
	f, err := c.Fractional(v)
	require.NoError(t, err)
	back := c.Cartesian(f)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, v[i], back[i], 1e-9)
	}
}
