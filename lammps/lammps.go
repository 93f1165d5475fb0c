// Package lammps implements the LAMMPS dump trajectory format on top of
// textformat (spec section 4.13): ITEM-delimited records carrying a
// per-atom field list whose columns the reader must interpret, selecting
// whichever of the four declared position representations (wrapped,
// scaled, unwrapped, scaled-unwrapped) is the most complete and least
// lossy, then applying cell-matrix scaling and image-flag unwrapping as
// needed.
//
// Grounded in LAMMPS's own dump-file grammar (the ITEM-header structure,
// the box-bounds orthorhombic/triclinic branch, and the attribute-kind
// vocabulary this file's columnKind mirrors) and spec section 4.13's
// explicit selection algorithm.
package lammps

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chemtraj/trajlib/cell"
	"github.com/chemtraj/trajlib/format"
	"github.com/chemtraj/trajlib/frame"
	"github.com/chemtraj/trajlib/geometry"
	"github.com/chemtraj/trajlib/textformat"
)

// columnKind classifies one declared "ITEM: ATOMS" column, following
// LAMMPS's own attribute vocabulary (spec section 4.13).
type columnKind int

const (
	colOther columnKind = iota
	colID
	colType
	colElement
	colCharge
	colPosX
	colPosY
	colPosZ
	colPosXS
	colPosYS
	colPosZS
	colPosXU
	colPosYU
	colPosZU
	colPosXSU
	colPosYSU
	colPosZSU
	colImgX
	colImgY
	colImgZ
	colVelX
	colVelY
	colVelZ
)

func columnKindFromName(name string) columnKind {
	switch name {
	case "id":
		return colID
	case "type":
		return colType
	case "element":
		return colElement
	case "q":
		return colCharge
	case "x":
		return colPosX
	case "y":
		return colPosY
	case "z":
		return colPosZ
	case "xs":
		return colPosXS
	case "ys":
		return colPosYS
	case "zs":
		return colPosZS
	case "xu":
		return colPosXU
	case "yu":
		return colPosYU
	case "zu":
		return colPosZU
	case "xsu":
		return colPosXSU
	case "ysu":
		return colPosYSU
	case "zsu":
		return colPosZSU
	case "ix":
		return colImgX
	case "iy":
		return colImgY
	case "iz":
		return colImgZ
	case "vx":
		return colVelX
	case "vy":
		return colVelY
	case "vz":
		return colVelZ
	default:
		return colOther
	}
}

// representation is one of the four position encodings a LAMMPS dump may
// declare (spec section 4.13).
type representation int

const (
	repNone representation = iota
	repWrapped
	repScaled
	repUnwrapped
	repScaledUnwrapped
)

// selectRepresentation picks the representation with the greatest number
// of declared axes (here: only fully-declared 3-axis families are
// considered), preferring unwrapped over wrapped and non-scaled over
// scaled, per spec section 4.13's selection algorithm.
func selectRepresentation(idx map[columnKind]int) representation {
	has := func(a, b, c columnKind) bool {
		_, ok1 := idx[a]
		_, ok2 := idx[b]
		_, ok3 := idx[c]
		return ok1 && ok2 && ok3
	}
	switch {
	case has(colPosXU, colPosYU, colPosZU):
		return repUnwrapped
	case has(colPosXSU, colPosYSU, colPosZSU):
		return repScaledUnwrapped
	case has(colPosX, colPosY, colPosZ):
		return repWrapped
	case has(colPosXS, colPosYS, colPosZS):
		return repScaled
	default:
		return repNone
	}
}

func (r representation) columns() (x, y, z columnKind) {
	switch r {
	case repWrapped:
		return colPosX, colPosY, colPosZ
	case repScaled:
		return colPosXS, colPosYS, colPosZS
	case repUnwrapped:
		return colPosXU, colPosYU, colPosZU
	case repScaledUnwrapped:
		return colPosXSU, colPosYSU, colPosZSU
	default:
		return colOther, colOther, colOther
	}
}

func (r representation) scaled() bool {
	return r == repScaled || r == repScaledUnwrapped
}

// codec implements textformat.Codec for the LAMMPS dump format.
type codec struct{}

func expectItem(lr *textformat.LineReader, want string) error {
	line, err := lr.ReadLine()
	if err != nil {
		return err
	}
	got := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "ITEM:"))
	if !strings.HasPrefix(got, want) {
		return fmt.Errorf("lammps: expected 'ITEM: %s', got %q", want, line)
	}
	return nil
}

func readCell(lr *textformat.LineReader) (cell.UnitCell, geometry.Vector3D, error) {
	header, err := lr.ReadLine()
	if err != nil {
		return cell.UnitCell{}, geometry.Zero3D, err
	}
	item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "ITEM:"))
	if !strings.HasPrefix(item, "BOX BOUNDS") {
		return cell.UnitCell{}, geometry.Zero3D, fmt.Errorf("lammps: missing 'BOX BOUNDS' item, got %q", header)
	}
	triclinic := strings.Contains(item, "xy xz yz")

	readBounds := func() ([]float64, error) {
		line, err := lr.ReadLine()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		want := 2
		if triclinic {
			want = 3
		}
		if len(fields) < want {
			return nil, fmt.Errorf("lammps: incomplete box dimensions, expected %d fields, got %q", want, line)
		}
		out := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("lammps: bad box bound %q: %w", f, err)
			}
			out[i] = v
		}
		return out, nil
	}

	xb, err := readBounds()
	if err != nil {
		return cell.UnitCell{}, geometry.Zero3D, err
	}
	yb, err := readBounds()
	if err != nil {
		return cell.UnitCell{}, geometry.Zero3D, err
	}
	zb, err := readBounds()
	if err != nil {
		return cell.UnitCell{}, geometry.Zero3D, err
	}

	origin := geometry.NewVector3D(xb[0], yb[0], zb[0])
	m := geometry.Matrix3D{
		{xb[1] - xb[0], 0, 0},
		{0, yb[1] - yb[0], 0},
		{0, 0, zb[1] - zb[0]},
	}
	if triclinic {
		// xy, xz, yz tilt factors: column i gains the off-diagonal
		// contribution of the next lattice vector, matching the
		// original's matrix[0][1]=xy, matrix[0][2]=xz, matrix[1][2]=yz
		// transposed into this package's column-major convention.
		m[0][1] = xb[2]
		m[0][2] = yb[2]
		m[1][2] = zb[2]
	}
	return cell.NewFromMatrix(m), origin, nil
}

func (codec) ReadStep(lr *textformat.LineReader, fr *frame.Frame) error {
	if err := expectItem(lr, "TIMESTEP"); err != nil {
		return err
	}
	stepLine, err := lr.ReadLine()
	if err != nil {
		return err
	}
	step, err := strconv.ParseUint(strings.TrimSpace(stepLine), 10, 64)
	if err != nil {
		return fmt.Errorf("lammps: bad timestep %q: %w", stepLine, err)
	}

	if err := expectItem(lr, "NUMBER OF ATOMS"); err != nil {
		return err
	}
	nLine, err := lr.ReadLine()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(nLine))
	if err != nil {
		return fmt.Errorf("lammps: bad atom count %q: %w", nLine, err)
	}

	c, origin, err := readCell(lr)
	if err != nil {
		return err
	}

	header, err := lr.ReadLine()
	if err != nil {
		return err
	}
	item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "ITEM:"))
	if !strings.HasPrefix(item, "ATOMS") {
		return fmt.Errorf("lammps: expected 'ITEM: ATOMS ...', got %q", header)
	}
	names := strings.Fields(strings.TrimPrefix(item, "ATOMS"))
	idx := make(map[columnKind]int, len(names))
	for i, name := range names {
		k := columnKindFromName(name)
		if k != colOther {
			idx[k] = i
		}
	}
	rep := selectRepresentation(idx)
	kx, ky, kz := rep.columns()
	rx, ry, rz := idx[kx], idx[ky], idx[kz]
	_, hasImages := idx[colImgX]
	hasVel := false
	if _, ok := idx[colVelX]; ok {
		hasVel = true
	}

	fr.Resize(n)
	fr.Cell = c
	fr.Step = step
	if hasVel {
		fr.EnableVelocities()
	}

	seenSlots := make(map[int]bool, n)
	for row := 0; row < n; row++ {
		line, err := lr.ReadLine()
		if err != nil {
			return fmt.Errorf("lammps: truncated frame at atom row %d: %w", row, err)
		}
		fields := strings.Fields(line)
		if len(fields) < len(names) {
			return fmt.Errorf("lammps: atom row %q has fewer fields than the declared %d columns", line, len(names))
		}

		slot := row
		if i, ok := idx[colID]; ok {
			id, err := strconv.Atoi(fields[i])
			if err != nil {
				return fmt.Errorf("lammps: bad atom id %q: %w", fields[i], err)
			}
			slot = id - 1
		}
		if slot < 0 || slot >= n {
			return fmt.Errorf("lammps: atom id %d out of range [1,%d]", slot+1, n)
		}
		if seenSlots[slot] {
			return fmt.Errorf("lammps: duplicate atom id %d", slot+1)
		}
		seenSlots[slot] = true

		a, err := fr.Topology.Atom(slot)
		if err != nil {
			return err
		}
		if i, ok := idx[colElement]; ok {
			a.Name = fields[i]
			a.Type = fields[i]
		} else if i, ok := idx[colType]; ok {
			a.Name = fields[i]
			a.Type = fields[i]
		}
		if i, ok := idx[colCharge]; ok {
			q, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return fmt.Errorf("lammps: bad charge %q: %w", fields[i], err)
			}
			a.Charge = q
		}

		if rep != repNone {
			px, err := strconv.ParseFloat(fields[rx], 64)
			if err != nil {
				return fmt.Errorf("lammps: bad position component %q: %w", fields[rx], err)
			}
			py, err := strconv.ParseFloat(fields[ry], 64)
			if err != nil {
				return fmt.Errorf("lammps: bad position component %q: %w", fields[ry], err)
			}
			pz, err := strconv.ParseFloat(fields[rz], 64)
			if err != nil {
				return fmt.Errorf("lammps: bad position component %q: %w", fields[rz], err)
			}
			pos := geometry.NewVector3D(px, py, pz)

			if rep.scaled() {
				pos = origin.Add(c.Cartesian(pos))
			}
			if rep == repWrapped && hasImages {
				ix, _ := strconv.Atoi(fields[idx[colImgX]])
				iy, _ := strconv.Atoi(fields[idx[colImgY]])
				iz, _ := strconv.Atoi(fields[idx[colImgZ]])
				shift := c.Vector(0).Scale(float64(ix)).Add(c.Vector(1).Scale(float64(iy))).Add(c.Vector(2).Scale(float64(iz)))
				pos = pos.Add(shift)
			}
			fr.Positions[slot] = pos
		}

		if hasVel {
			vx, err := strconv.ParseFloat(fields[idx[colVelX]], 64)
			if err != nil {
				return fmt.Errorf("lammps: bad velocity component %q: %w", fields[idx[colVelX]], err)
			}
			vy, err := strconv.ParseFloat(fields[idx[colVelY]], 64)
			if err != nil {
				return fmt.Errorf("lammps: bad velocity component %q: %w", fields[idx[colVelY]], err)
			}
			vz, err := strconv.ParseFloat(fields[idx[colVelZ]], 64)
			if err != nil {
				return fmt.Errorf("lammps: bad velocity component %q: %w", fields[idx[colVelZ]], err)
			}
			fr.Velocities[slot] = geometry.NewVector3D(vx, vy, vz)
		}
	}
	return nil
}

func (codec) WriteStep(w io.Writer, fr *frame.Frame) error {
	if _, err := fmt.Fprintf(w, "ITEM: TIMESTEP\n%d\n", fr.Step); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "ITEM: NUMBER OF ATOMS\n%d\n", fr.Size()); err != nil {
		return err
	}
	m := fr.Cell.Matrix()
	xy, xz, yz := m[0][1], m[0][2], m[1][2]
	triclinic := xy != 0 || xz != 0 || yz != 0
	if triclinic {
		if _, err := fmt.Fprintf(w, "ITEM: BOX BOUNDS xy xz yz pp pp pp\n"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%g %g %g\n%g %g %g\n%g %g %g\n",
			0.0, m[0][0], xy, 0.0, m[1][1], xz, 0.0, m[2][2], yz); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "ITEM: BOX BOUNDS pp pp pp\n"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%g %g\n%g %g\n%g %g\n",
			0.0, m[0][0], 0.0, m[1][1], 0.0, m[2][2]); err != nil {
			return err
		}
	}
	hasVel := fr.HasVelocities()
	header := "ITEM: ATOMS id type x y z"
	if hasVel {
		header += " vx vy vz"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for i, pos := range fr.Positions {
		a, err := fr.Topology.Atom(i)
		if err != nil {
			return err
		}
		if hasVel {
			v := fr.Velocities[i]
			if _, err := fmt.Fprintf(w, "%d %s %g %g %g %g %g %g\n", i+1, a.Type, pos[0], pos[1], pos[2], v[0], v[1], v[2]); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, "%d %s %g %g %g\n", i+1, a.Type, pos[0], pos[1], pos[2]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Open opens path as a LAMMPS dump trajectory.
func Open(path string, mode format.Mode) (format.Format, error) {
	return textformat.Open(path, mode, codec{})
}

func init() {
	format.DefaultRegistry().Register(format.Metadata{
		Name:      "LAMMPS",
		Extension: "lammpstrj",
		Features: format.Features{
			Reads: true, Writes: true, MemoryBuffer: true, Positions: true, Velocities: true, UnitCell: true, Atoms: true,
		},
	}, Open)
}
