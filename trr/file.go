// Package trr implements the GROMACS TRR binary trajectory format (spec
// section 4.12/6.1): the same XDR frame header shape as this module's xtc
// package, but carrying raw uncompressed positions/velocities instead of a
// compressed coordinate block.
//
// Grounded in GROMACS's own xdrfile_trr.h `t_trnheader` layout (magic,
// ir_size, e_size, box_size, vir_size, pres_size, top_size, sym_size,
// x_size, v_size, f_size, natoms, step, nre, t, lambda) — reused here
// verbatim since it is the real on-disk TRR header, not a derived shape.
package trr

import (
	"fmt"
	"os"

	"github.com/chemtraj/trajlib/cell"
	"github.com/chemtraj/trajlib/format"
	"github.com/chemtraj/trajlib/frame"
	"github.com/chemtraj/trajlib/geometry"
	"github.com/chemtraj/trajlib/property"
	"github.com/chemtraj/trajlib/trajerr"
	"github.com/chemtraj/trajlib/xdr"
)

// magic is GROMACS's classic (non-double-precision) TRR magic number.
const magic = 1993

// nmPerAngstrom converts Angstrom to nm (file unit) and back.
const nmPerAngstrom = 0.1

type frameHeader struct {
	Magic, IrSize, ESize, BoxSize, VirSize, PresSize, TopSize, SymSize int32
	XSize, VSize, FSize                                                int32
	Natoms, Step, Nre                                                  int32
	Time, Lambda                                                       float32
}

func readHeader(x *xdr.File) (frameHeader, error) {
	var h frameHeader
	fields := []*int32{
		&h.Magic, &h.IrSize, &h.ESize, &h.BoxSize, &h.VirSize, &h.PresSize,
		&h.TopSize, &h.SymSize, &h.XSize, &h.VSize, &h.FSize, &h.Natoms, &h.Step, &h.Nre,
	}
	for _, f := range fields {
		v, err := x.ReadInt32()
		if err != nil {
			return h, err
		}
		*f = v
	}
	t, err := x.ReadFloat32()
	if err != nil {
		return h, err
	}
	h.Time = t
	l, err := x.ReadFloat32()
	if err != nil {
		return h, err
	}
	h.Lambda = l
	return h, nil
}

func writeHeader(x *xdr.File, h frameHeader) error {
	fields := []int32{
		h.Magic, h.IrSize, h.ESize, h.BoxSize, h.VirSize, h.PresSize,
		h.TopSize, h.SymSize, h.XSize, h.VSize, h.FSize, h.Natoms, h.Step, h.Nre,
	}
	for _, v := range fields {
		if err := x.WriteInt32(v); err != nil {
			return err
		}
	}
	if err := x.WriteFloat32(h.Time); err != nil {
		return err
	}
	return x.WriteFloat32(h.Lambda)
}

// File is an open TRR trajectory, byte-offset-indexed by a forward scan at
// open time.
type File struct {
	osFile  *os.File
	x       *xdr.File
	mode    format.Mode
	natoms  int
	offsets []int64
	cursor  int
}

// Open opens path in the given mode.
func Open(path string, mode format.Mode) (format.Format, error) {
	switch mode {
	case format.ModeRead:
		return openRead(path)
	case format.ModeWrite:
		osFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return nil, trajerr.FileError("trr.Open", err)
		}
		return &File{osFile: osFile, x: xdr.New(osFile), mode: format.ModeWrite}, nil
	case format.ModeAppend:
		return openAppend(path)
	default:
		return nil, trajerr.ConfigurationError("trr.Open", fmt.Errorf("unknown mode %v", mode))
	}
}

func openRead(path string) (*File, error) {
	osFile, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, trajerr.FileError("trr.Open", err)
	}
	f := &File{osFile: osFile, x: xdr.New(osFile), mode: format.ModeRead}
	if err := f.scan(); err != nil {
		osFile.Close()
		return nil, err
	}
	return f, nil
}

func openAppend(path string) (*File, error) {
	osFile, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, trajerr.FileError("trr.Open", err)
	}
	f := &File{osFile: osFile, x: xdr.New(osFile), mode: format.ModeAppend}
	if err := f.scan(); err != nil {
		osFile.Close()
		return nil, err
	}
	if _, err := osFile.Seek(0, os.SEEK_END); err != nil {
		osFile.Close()
		return nil, trajerr.FileError("trr.Open", err)
	}
	return f, nil
}

// scan performs the one-time forward scan building the frame offset index.
func (f *File) scan() error {
	if _, err := f.osFile.Seek(0, os.SEEK_SET); err != nil {
		return trajerr.FileError("trr.File.scan", err)
	}
	for {
		offset, err := f.osFile.Seek(0, os.SEEK_CUR)
		if err != nil {
			return trajerr.FileError("trr.File.scan", err)
		}
		h, err := readHeader(f.x)
		if err != nil {
			break // EOF: no more frames
		}
		if h.Magic != magic {
			return trajerr.FormatError("trr.File.scan", fmt.Errorf("bad TRR magic %d at offset %d", h.Magic, offset))
		}
		f.natoms = int(h.Natoms)
		skip := int64(h.BoxSize) + int64(h.VirSize) + int64(h.PresSize) + int64(h.XSize) + int64(h.VSize) + int64(h.FSize)
		if _, err := f.osFile.Seek(skip, os.SEEK_CUR); err != nil {
			return trajerr.FileError("trr.File.scan", err)
		}
		f.offsets = append(f.offsets, offset)
	}
	return nil
}

// NSteps reports how many frames were found by the forward scan.
func (f *File) NSteps() int { return len(f.offsets) }

// Read reads the next frame in sequence.
func (f *File) Read(fr *frame.Frame) error {
	if err := f.ReadStep(f.cursor, fr); err != nil {
		return err
	}
	f.cursor++
	return nil
}

// ReadStep seeks to step's recorded offset and decodes it into fr.
func (f *File) ReadStep(step int, fr *frame.Frame) error {
	if step < 0 || step >= len(f.offsets) {
		return trajerr.OutOfBounds("trr.File.ReadStep", fmt.Errorf("step %d out of range [0,%d)", step, len(f.offsets)))
	}
	if _, err := f.osFile.Seek(f.offsets[step], os.SEEK_SET); err != nil {
		return trajerr.FileError("trr.File.ReadStep", err)
	}
	h, err := readHeader(f.x)
	if err != nil {
		return err
	}

	fr.Resize(int(h.Natoms))
	fr.Properties.Set("has_positions", property.NewBool(false))

	if h.BoxSize > 0 {
		boxFlat, err := f.x.ReadFloat32Array(9)
		if err != nil {
			return err
		}
		m := geometry.Matrix3D{
			{float64(boxFlat[0]) * 10, float64(boxFlat[3]) * 10, float64(boxFlat[6]) * 10},
			{float64(boxFlat[1]) * 10, float64(boxFlat[4]) * 10, float64(boxFlat[7]) * 10},
			{float64(boxFlat[2]) * 10, float64(boxFlat[5]) * 10, float64(boxFlat[8]) * 10},
		}
		fr.Cell = cell.NewFromMatrix(m)
	}
	if h.VirSize > 0 {
		if _, err := f.x.ReadFloat32Array(9); err != nil {
			return err
		}
	}
	if h.PresSize > 0 {
		if _, err := f.x.ReadFloat32Array(9); err != nil {
			return err
		}
	}
	if h.XSize > 0 {
		flat, err := f.x.ReadFloat32Array(int(h.Natoms) * 3)
		if err != nil {
			return err
		}
		fr.Properties.Set("has_positions", property.NewBool(true))
		for i := 0; i < int(h.Natoms); i++ {
			fr.Positions[i] = geometry.NewVector3D(float64(flat[3*i])*10, float64(flat[3*i+1])*10, float64(flat[3*i+2])*10)
		}
	}
	if h.VSize > 0 {
		flat, err := f.x.ReadFloat32Array(int(h.Natoms) * 3)
		if err != nil {
			return err
		}
		fr.EnableVelocities()
		for i := 0; i < int(h.Natoms); i++ {
			fr.Velocities[i] = geometry.NewVector3D(float64(flat[3*i])*10, float64(flat[3*i+1])*10, float64(flat[3*i+2])*10)
		}
	}
	if h.FSize > 0 {
		if _, err := f.x.ReadFloat32Array(int(h.Natoms) * 3); err != nil {
			return err
		}
	}

	fr.Step = uint64(h.Step)
	fr.Properties.Set("time", property.NewDouble(float64(h.Time)))
	fr.Properties.Set("trr_lambda", property.NewDouble(float64(h.Lambda)))
	return nil
}

// Write appends fr as a new frame. Every written frame must have the same
// atom count as the first.
func (f *File) Write(fr *frame.Frame) error {
	if f.natoms == 0 {
		f.natoms = fr.Size()
	} else if fr.Size() != f.natoms {
		return trajerr.FormatError("trr.File.Write", fmt.Errorf("TRR format does not support varying atom counts: expected %d, got %d", f.natoms, fr.Size()))
	}

	hasBox := fr.Cell.Shape() != cell.Infinite
	hasPositions := true
	if p, ok := fr.Properties.Get("has_positions"); ok {
		if v, err := p.Bool(); err == nil {
			hasPositions = v
		}
	}
	hasVelocities := fr.HasVelocities()

	time := float32(0)
	if t, ok := fr.Properties.Get("time"); ok {
		if v, err := t.Double(); err == nil {
			time = float32(v)
		}
	}
	lambda := float32(0)
	if l, ok := fr.Properties.Get("trr_lambda"); ok {
		if v, err := l.Double(); err == nil {
			lambda = float32(v)
		}
	}

	boxSize, xSize, vSize := int32(0), int32(0), int32(0)
	if hasBox {
		boxSize = 9 * 4
	}
	if hasPositions {
		xSize = int32(f.natoms * 3 * 4)
	}
	if hasVelocities {
		vSize = int32(f.natoms * 3 * 4)
	}

	h := frameHeader{
		Magic:   magic,
		BoxSize: boxSize,
		XSize:   xSize,
		VSize:   vSize,
		Natoms:  int32(f.natoms),
		Step:    int32(fr.Step),
		Time:    time,
		Lambda:  lambda,
	}
	if err := writeHeader(f.x, h); err != nil {
		return err
	}

	if hasBox {
		m := fr.Cell.Matrix()
		box := []float32{
			float32(m[0][0] * nmPerAngstrom), float32(m[1][0] * nmPerAngstrom), float32(m[2][0] * nmPerAngstrom),
			float32(m[0][1] * nmPerAngstrom), float32(m[1][1] * nmPerAngstrom), float32(m[2][1] * nmPerAngstrom),
			float32(m[0][2] * nmPerAngstrom), float32(m[1][2] * nmPerAngstrom), float32(m[2][2] * nmPerAngstrom),
		}
		if err := f.x.WriteFloat32Array(box); err != nil {
			return err
		}
	}
	if hasPositions {
		flat := make([]float32, f.natoms*3)
		for i, p := range fr.Positions {
			flat[3*i] = float32(p[0] * nmPerAngstrom)
			flat[3*i+1] = float32(p[1] * nmPerAngstrom)
			flat[3*i+2] = float32(p[2] * nmPerAngstrom)
		}
		if err := f.x.WriteFloat32Array(flat); err != nil {
			return err
		}
	}
	if hasVelocities {
		flat := make([]float32, f.natoms*3)
		for i, v := range fr.Velocities {
			flat[3*i] = float32(v[0] * nmPerAngstrom)
			flat[3*i+1] = float32(v[1] * nmPerAngstrom)
			flat[3*i+2] = float32(v[2] * nmPerAngstrom)
		}
		if err := f.x.WriteFloat32Array(flat); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying OS file.
func (f *File) Close() error {
	if err := f.osFile.Close(); err != nil {
		return trajerr.FileError("trr.File.Close", err)
	}
	return nil
}
