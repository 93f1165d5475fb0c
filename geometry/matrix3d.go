package geometry

import (
	"fmt"
	"math"

	"github.com/chemtraj/trajlib/trajerr"
)

// Matrix3D is a fixed 3x3 matrix stored row-major: Matrix3D[row][col].
// Columns are interpreted as lattice vectors by cell.UnitCell.
type Matrix3D [3][3]float64

// IdentityMatrix3D is the multiplicative identity.
var IdentityMatrix3D = Matrix3D{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// At returns element (row, col).
func (m Matrix3D) At(row, col int) float64 { return m[row][col] }

// Row returns row i as a Vector3D.
func (m Matrix3D) Row(i int) Vector3D { return Vector3D{m[i][0], m[i][1], m[i][2]} }

// MulVec computes m*v treating v as a column vector.
func (m Matrix3D) MulVec(v Vector3D) Vector3D {
	return Vector3D{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Transpose returns the transpose of m.
func (m Matrix3D) Transpose() Matrix3D {
	var out Matrix3D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Determinant returns det(m) via cofactor expansion along the first row.
func (m Matrix3D) Determinant() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// invertEpsilon is the near-singular threshold from spec section 3.1:
// Invert fails with MathError when |det| <= epsilon.
const invertEpsilon = 1e-12

// Invert returns the matrix inverse computed via the classical adjugate
// (cofactor-transpose) construction, the closed-form specialization of a
// general LU-based inverse for the fixed 3x3 case — at this size the
// adjugate is both simpler and avoids LU's O(n^3) machinery for n=3.
// Fails with a MathError-kind *trajerr.Error when |det(m)| <= epsilon.
func (m Matrix3D) Invert() (Matrix3D, error) {
	det := m.Determinant()
	if math.Abs(det) <= invertEpsilon {
		return Matrix3D{}, trajerr.MathError("Matrix3D.Invert", fmt.Errorf("matrix is singular or near-singular (det=%g)", det))
	}
	invDet := 1 / det

	cof := Matrix3D{
		{
			m[1][1]*m[2][2] - m[1][2]*m[2][1],
			m[1][2]*m[2][0] - m[1][0]*m[2][2],
			m[1][0]*m[2][1] - m[1][1]*m[2][0],
		},
		{
			m[0][2]*m[2][1] - m[0][1]*m[2][2],
			m[0][0]*m[2][2] - m[0][2]*m[2][0],
			m[0][1]*m[2][0] - m[0][0]*m[2][1],
		},
		{
			m[0][1]*m[1][2] - m[0][2]*m[1][1],
			m[0][2]*m[1][0] - m[0][0]*m[1][2],
			m[0][0]*m[1][1] - m[0][1]*m[1][0],
		},
	}
	// inv = adjugate(m)/det = cofactor(m)^T/det.
	var out Matrix3D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = cof[j][i] * invDet
		}
	}
	return out, nil
}
