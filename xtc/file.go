package xtc

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

// magic identifies this module's XTC-like frame container. Real GROMACS
// xdrfile tooling uses 1995 for XTC; reused here since this module's XTC
// frame header follows spec section 4.12's unified TRR/XTC header shape
// rather than the historical bare XTC header, so on-disk compatibility with
// third-party GROMACS readers is not a goal.
const magic = 1995

// frameHeader is the fixed-size preamble of spec section 4.12, written
// before every frame's box/position/velocity/force blocks. xSize/vSize/
// fSize record each following block's exact byte length so a forward scan
// can skip a frame without decoding it.
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

// nmPerAngstrom converts Angstrom to nm (file unit) and back.
const nmPerAngstrom = 0.1

// File is an open XTC trajectory: compressed positions plus a triclinic
// box, scanned once at open time into a byte-offset index (spec section
// 4.12's "driver does not own the per-step index" design).
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
			return nil, trajerr.FileError("xtc.Open", err)
		}
		return &File{osFile: osFile, x: xdr.New(osFile), mode: format.ModeWrite}, nil
	case format.ModeAppend:
		return openAppend(path)
	default:
		return nil, trajerr.ConfigurationError("xtc.Open", fmt.Errorf("unknown mode %v", mode))
	}
}

func openRead(path string) (*File, error) {
	osFile, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, trajerr.FileError("xtc.Open", err)
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
		return nil, trajerr.FileError("xtc.Open", err)
	}
	f := &File{osFile: osFile, x: xdr.New(osFile), mode: format.ModeAppend}
	if err := f.scan(); err != nil {
		osFile.Close()
		return nil, err
	}
	if _, err := osFile.Seek(0, os.SEEK_END); err != nil {
		osFile.Close()
		return nil, trajerr.FileError("xtc.Open", err)
	}
	return f, nil
}

// scan performs the one-time forward scan building the frame offset index.
func (f *File) scan() error {
	if _, err := f.osFile.Seek(0, os.SEEK_SET); err != nil {
		return trajerr.FileError("xtc.File.scan", err)
	}
	for {
		offset, err := f.osFile.Seek(0, os.SEEK_CUR)
		if err != nil {
			return trajerr.FileError("xtc.File.scan", err)
		}
		h, err := readHeader(f.x)
		if err != nil {
			break // EOF: no more frames
		}
		if h.Magic != magic {
			return trajerr.FormatError("xtc.File.scan", fmt.Errorf("bad XTC magic %d at offset %d", h.Magic, offset))
		}
		f.natoms = int(h.Natoms)
		skip := int64(h.BoxSize) + int64(h.XSize) + int64(h.VSize) + int64(h.FSize)
		if _, err := f.osFile.Seek(skip, os.SEEK_CUR); err != nil {
			return trajerr.FileError("xtc.File.scan", err)
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
		return trajerr.OutOfBounds("xtc.File.ReadStep", fmt.Errorf("step %d out of range [0,%d)", step, len(f.offsets)))
	}
	if _, err := f.osFile.Seek(f.offsets[step], os.SEEK_SET); err != nil {
		return trajerr.FileError("xtc.File.ReadStep", err)
	}
	h, err := readHeader(f.x)
	if err != nil {
		return err
	}
	boxFlat, err := f.x.ReadFloat32Array(9)
	if err != nil {
		return err
	}
	precision, err := f.x.ReadFloat32()
	if err != nil {
		return err
	}
	var minInt, maxInt [3]int32
	for i := range minInt {
		v, err := f.x.ReadInt32()
		if err != nil {
			return err
		}
		minInt[i] = v
	}
	for i := range maxInt {
		v, err := f.x.ReadInt32()
		if err != nil {
			return err
		}
		maxInt[i] = v
	}
	smallidx, err := f.x.ReadInt32()
	if err != nil {
		return err
	}
	payload, err := f.x.ReadOpaque()
	if err != nil {
		return err
	}

	coords, err := Decode(Header{Precision: precision, Min: minInt, Max: maxInt, SmallIdx: smallidx}, payload, int(h.Natoms))
	if err != nil {
		return err
	}

	fr.Resize(int(h.Natoms))
	for i, c := range coords {
		fr.Positions[i] = c.Scale(10) // nm -> Angstrom
	}
	fr.Step = uint64(h.Step)
	fr.Properties.Set("time", property.NewDouble(float64(h.Time)))
	fr.Properties.Set("xtc_precision", property.NewDouble(float64(precision)))

	m := geometry.Matrix3D{
		{float64(boxFlat[0]) * 10, float64(boxFlat[3]) * 10, float64(boxFlat[6]) * 10},
		{float64(boxFlat[1]) * 10, float64(boxFlat[4]) * 10, float64(boxFlat[7]) * 10},
		{float64(boxFlat[2]) * 10, float64(boxFlat[5]) * 10, float64(boxFlat[8]) * 10},
	}
	fr.Cell = cell.NewFromMatrix(m)
	return nil
}

// Write appends fr as a new frame. Every written frame must have the same
// atom count as the first.
func (f *File) Write(fr *frame.Frame) error {
	if f.natoms == 0 {
		f.natoms = fr.Size()
	} else if fr.Size() != f.natoms {
		return trajerr.FormatError("xtc.File.Write", fmt.Errorf("XTC format does not support varying atom counts: expected %d, got %d", f.natoms, fr.Size()))
	}

	precision := DefaultPrecision
	if p, ok := fr.Properties.Get("xtc_precision"); ok {
		if v, err := p.Double(); err == nil && v > 0 {
			precision = v
		}
	}
	scaled := make([]geometry.Vector3D, fr.Size())
	for i, p := range fr.Positions {
		scaled[i] = p.Scale(nmPerAngstrom)
	}
	h, payload, err := Encode(scaled, precision)
	if err != nil {
		return err
	}

	time := float32(0)
	if t, ok := fr.Properties.Get("time"); ok {
		if v, err := t.Double(); err == nil {
			time = float32(v)
		}
	}

	m := fr.Cell.Matrix()
	box := [9]float32{
		float32(m[0][0] * nmPerAngstrom), float32(m[1][0] * nmPerAngstrom), float32(m[2][0] * nmPerAngstrom),
		float32(m[0][1] * nmPerAngstrom), float32(m[1][1] * nmPerAngstrom), float32(m[2][1] * nmPerAngstrom),
		float32(m[0][2] * nmPerAngstrom), float32(m[1][2] * nmPerAngstrom), float32(m[2][2] * nmPerAngstrom),
	}

	xsize := 4 + 12 + 12 + 4 + 4 + len(payload)
	if pad := xsize % 4; pad != 0 {
		xsize += 4 - pad
	}

	hdr := frameHeader{
		Magic:   magic,
		BoxSize: 9 * 4,
		XSize:   int32(xsize),
		Natoms:  int32(f.natoms),
		Step:    int32(fr.Step),
		Time:    time,
	}
	if err := writeHeader(f.x, hdr); err != nil {
		return err
	}
	if err := f.x.WriteFloat32Array(box[:]); err != nil {
		return err
	}
	if err := f.x.WriteFloat32(h.Precision); err != nil {
		return err
	}
	for _, v := range h.Min {
		if err := f.x.WriteInt32(v); err != nil {
			return err
		}
	}
	for _, v := range h.Max {
		if err := f.x.WriteInt32(v); err != nil {
			return err
		}
	}
	if err := f.x.WriteInt32(h.SmallIdx); err != nil {
		return err
	}
	return f.x.WriteOpaque(payload)
}

// Close closes the underlying OS file.
func (f *File) Close() error {
	if err := f.osFile.Close(); err != nil {
		return trajerr.FileError("xtc.File.Close", err)
	}
	return nil
}
