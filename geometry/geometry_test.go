package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorOps(t *testing.T) {
	a := NewVector3D(1, 0, 0)
	b := NewVector3D(0, 1, 0)
	assert.Equal(t, 0.0, a.Dot(b))
	assert.Equal(t, NewVector3D(0, 0, 1), a.Cross(b))
	assert.InDelta(t, 1.0, a.Norm(), 1e-12)
	assert.Equal(t, NewVector3D(1, 1, 0), a.Add(b))
}

func TestMatrixInvertIdentity(t *testing.T) {
	inv, err := IdentityMatrix3D.Invert()
	require.NoError(t, err)
	assert.Equal(t, IdentityMatrix3D, inv)
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Matrix3D{{2, 0, 0}, {1, 3, 0}, {0, 1, 4}}
	inv, err := m.Invert()
	require.NoError(t, err)

	// m * inv should equal identity.
	var product Matrix3D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m[i][k] * inv[k][j]
			}
			product[i][j] = sum
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, product[i][j], 1e-9)
		}
	}
}

func TestMatrixInvertSingularFails(t *testing.T) {
	m := Matrix3D{{1, 2, 3}, {2, 4, 6}, {1, 1, 1}}
	_, err := m.Invert()
	require.Error(t, err)
}

func TestMulVec(t *testing.T) {
	m := Matrix3D{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}
	v := NewVector3D(1, 2, 3)
	got := m.MulVec(v)
	assert.Equal(t, NewVector3D(2, 4, 6), got)
	assert.False(t, math.IsNaN(got.Norm()))
}
