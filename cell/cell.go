// Package cell implements the triclinic unit cell of spec section 3.4/4.4:
// a 3x3 matrix, kept in upper-triangular canonical form, with shape
// classification and the minimum-image wrap operator the rest of the
// module (Frame's geometric operators, XTC) needs.
//
// Internal convention: matrix's *columns* are the lattice vectors a, b, c
// (the standard "h-matrix" convention also used by LAMMPS/GROMACS), so that
// spec section 4.4's formulas (fractional(v) = matrix^-1 * v, wrap(v) =
// v - matrix*round(matrix^-1*v)) hold with no transpose, and the
// upper-triangular construction of section 4.4 is literally upper
// triangular in this layout. Vector(i) exposes lattice vector i without
// committing callers to "row" or "column" language.
package cell

import (
	"math"

	"github.com/chemtraj/trajlib/geometry"
	"github.com/chemtraj/trajlib/trajerr"
)

// Shape classifies a UnitCell's matrix.
type Shape int

const (
	Infinite Shape = iota
	Orthorhombic
	Triclinic
)

func (s Shape) String() string {
	switch s {
	case Infinite:
		return "Infinite"
	case Orthorhombic:
		return "Orthorhombic"
	default:
		return "Triclinic"
	}
}

// UnitCell is the triclinic simulation cell.
type UnitCell struct {
	matrix geometry.Matrix3D
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// NewInfinite builds the zero-matrix infinite cell.
func NewInfinite() UnitCell { return UnitCell{} }

// NewFromLengthsAngles builds a UnitCell from lengths (a,b,c) in Angstrom
// and angles (alpha,beta,gamma) in degrees, using the canonical
// upper-triangular construction of spec section 4.4.
func NewFromLengthsAngles(a, b, c, alpha, beta, gamma float64) UnitCell {
	if a == 0 && b == 0 && c == 0 {
		return NewInfinite()
	}
	gammaR := degToRad(gamma)
	// An exact right angle gets a cosine of exactly 0, so a 90/90/90 cell
	// comes out strictly diagonal.
	cosDeg := func(deg float64) float64 {
		if deg == 90 {
			return 0
		}
		return math.Cos(degToRad(deg))
	}

	ax := a
	bx := b * cosDeg(gamma)
	by := b * math.Sin(gammaR)
	cx := c * cosDeg(beta)
	var cy float64
	if math.Abs(math.Sin(gammaR)) > 1e-12 {
		cy = c * (cosDeg(alpha) - cosDeg(beta)*cosDeg(gamma)) / math.Sin(gammaR)
	}
	cz2 := c*c - cx*cx - cy*cy
	if cz2 < 0 {
		cz2 = 0
	}
	cz := math.Sqrt(cz2)

	// Column j holds lattice vector j: a=(ax,0,0), b=(bx,by,0), c=(cx,cy,cz).
	m := geometry.Matrix3D{
		{ax, bx, cx},
		{0, by, cy},
		{0, 0, cz},
	}
	return UnitCell{matrix: m}
}

// NewFromMatrix builds a UnitCell directly from a 3x3 matrix whose columns
// are lattice vectors.
func NewFromMatrix(m geometry.Matrix3D) UnitCell { return UnitCell{matrix: m} }

// Matrix returns the cell matrix (columns are lattice vectors).
func (c UnitCell) Matrix() geometry.Matrix3D { return c.matrix }

// Vector returns lattice vector i (0=a, 1=b, 2=c).
func (c UnitCell) Vector(i int) geometry.Vector3D {
	return geometry.NewVector3D(c.matrix[0][i], c.matrix[1][i], c.matrix[2][i])
}

// Shape classifies the cell: Infinite (all-zero), Orthorhombic (strictly
// diagonal), or Triclinic (anything else).
func (c UnitCell) Shape() Shape {
	zero := true
	diagonal := true
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if c.matrix[i][j] != 0 {
				zero = false
				if i != j {
					diagonal = false
				}
			}
		}
	}
	switch {
	case zero:
		return Infinite
	case diagonal:
		return Orthorhombic
	default:
		return Triclinic
	}
}

// Lengths returns the lengths of the three lattice vectors.
func (c UnitCell) Lengths() (a, b, cc float64) {
	return c.Vector(0).Norm(), c.Vector(1).Norm(), c.Vector(2).Norm()
}

// Angles returns the (alpha, beta, gamma) angles in degrees between lattice
// vectors (b,c), (a,c), (a,b) respectively, following the crystallographic
// convention.
func (c UnitCell) Angles() (alpha, beta, gamma float64) {
	a, b, cc := c.Vector(0), c.Vector(1), c.Vector(2)
	angle := func(u, v geometry.Vector3D) float64 {
		nu, nv := u.Norm(), v.Norm()
		if nu == 0 || nv == 0 {
			return 90
		}
		cos := clamp(u.Dot(v)/(nu*nv), -1, 1)
		return radToDeg(math.Acos(cos))
	}
	return angle(b, cc), angle(a, cc), angle(a, b)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wrap applies the minimum-image convention to displacement v:
// wrap(v) = v - matrix*round(matrix^-1*v). For an Infinite cell, it is the
// identity.
func (c UnitCell) Wrap(v geometry.Vector3D) geometry.Vector3D {
	if c.Shape() == Infinite {
		return v
	}
	inv, err := c.matrix.Invert()
	if err != nil {
		// A non-infinite cell with a singular matrix is a construction
		// error elsewhere; fall back to the identity rather than panic.
		return v
	}
	n := inv.MulVec(v).Round()
	return v.Sub(c.matrix.MulVec(n))
}

// Fractional converts a cartesian vector to fractional coordinates:
// fractional(v) = matrix^-1 * v.
func (c UnitCell) Fractional(v geometry.Vector3D) (geometry.Vector3D, error) {
	if c.Shape() == Infinite {
		return v, nil
	}
	inv, err := c.matrix.Invert()
	if err != nil {
		return geometry.Vector3D{}, trajerr.MathError("UnitCell.Fractional", err)
	}
	return inv.MulVec(v), nil
}

// Cartesian converts fractional coordinates back to cartesian:
// cartesian(f) = matrix * f.
func (c UnitCell) Cartesian(f geometry.Vector3D) geometry.Vector3D {
	return c.matrix.MulVec(f)
}
