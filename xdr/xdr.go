// Package xdr implements the big-endian primitive I/O of RFC 4506 (spec
// section 4.9/6.1), plus the two GROMACS-specific extensions layered on
// top of it: the "Gromacs string" encoding and opaque byte blocks.
//
// Grounded in GROMACS's own XDR primitive set (read/write int, uint,
// float, double, opaque, Gromacs string), re-expressed on Go's
// encoding/binary.BigEndian over an io.ReadWriter instead of a custom
// BigEndianFile base class.
package xdr

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/chemtraj/trajlib/trajerr"
)

// File is a big-endian, 4-byte-aligned primitive reader/writer over an
// underlying stream.
type File struct {
	rw io.ReadWriter
}

// New wraps rw as an XDR File.
func New(rw io.ReadWriter) *File { return &File{rw: rw} }

// Raw exposes the underlying stream for callers that need to read or
// write bytes with no XDR framing (e.g. a length already read/written
// separately from the payload).
func (f *File) Raw() io.ReadWriter { return f.rw }

func (f *File) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(f.rw, buf); err != nil {
		return nil, trajerr.FileError("xdr.File.readN", err)
	}
	return buf, nil
}

func (f *File) write(buf []byte) error {
	if _, err := f.rw.Write(buf); err != nil {
		return trajerr.FileError("xdr.File.write", err)
	}
	return nil
}

// ReadInt32 reads a big-endian, 4-byte-aligned signed 32-bit integer.
func (f *File) ReadInt32() (int32, error) {
	u, err := f.ReadUint32()
	return int32(u), err
}

// WriteInt32 writes v big-endian, 4-byte aligned.
func (f *File) WriteInt32(v int32) error { return f.WriteUint32(uint32(v)) }

// ReadUint32 reads a big-endian, 4-byte-aligned unsigned 32-bit integer.
func (f *File) ReadUint32() (uint32, error) {
	buf, err := f.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// WriteUint32 writes v big-endian, 4-byte aligned.
func (f *File) WriteUint32(v uint32) error {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return f.write(buf)
}

// ReadInt64 reads a big-endian, 8-byte-aligned signed 64-bit integer
// (used by CDF-2 64-bit offsets).
func (f *File) ReadInt64() (int64, error) {
	buf, err := f.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf)), nil
}

// WriteInt64 writes v big-endian, 8-byte aligned.
func (f *File) WriteInt64(v int64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return f.write(buf)
}

// ReadFloat32 reads a big-endian IEEE-754 single-precision float.
func (f *File) ReadFloat32() (float32, error) {
	u, err := f.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// WriteFloat32 writes v as a big-endian IEEE-754 single-precision float.
func (f *File) WriteFloat32(v float32) error {
	return f.WriteUint32(math.Float32bits(v))
}

// ReadFloat64 reads a big-endian IEEE-754 double-precision float.
func (f *File) ReadFloat64() (float64, error) {
	u, err := f.ReadInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(u)), nil
}

// WriteFloat64 writes v as a big-endian IEEE-754 double-precision float.
func (f *File) WriteFloat64(v float64) error {
	return f.WriteInt64(int64(math.Float64bits(v)))
}

// ReadFloat32Array reads n consecutive big-endian float32 values.
func (f *File) ReadFloat32Array(n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := f.ReadFloat32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteFloat32Array writes data as consecutive big-endian float32 values.
func (f *File) WriteFloat32Array(data []float32) error {
	for _, v := range data {
		if err := f.WriteFloat32(v); err != nil {
			return err
		}
	}
	return nil
}

func pad4(n int) int {
	if rem := n % 4; rem != 0 {
		return 4 - rem
	}
	return 0
}

// ReadOpaque reads a u32 length, that many bytes, and discards the
// trailing zero padding up to a 4-byte boundary.
func (f *File) ReadOpaque() ([]byte, error) {
	n, err := f.ReadUint32()
	if err != nil {
		return nil, err
	}
	data, err := f.readN(int(n))
	if err != nil {
		return nil, err
	}
	if p := pad4(int(n)); p > 0 {
		if _, err := f.readN(p); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// WriteOpaque writes a u32 length, data, and zero padding up to a 4-byte
// boundary.
func (f *File) WriteOpaque(data []byte) error {
	if err := f.WriteUint32(uint32(len(data))); err != nil {
		return err
	}
	if err := f.write(data); err != nil {
		return err
	}
	if p := pad4(len(data)); p > 0 {
		return f.write(make([]byte, p))
	}
	return nil
}

// ReadGromacsString reads a non-RFC-compliant GROMACS string: a u32 length
// including the NUL terminator, followed by length-1 bytes of opaque data
// (no terminator on disk), padded to a 4-byte boundary.
func (f *File) ReadGromacsString() (string, error) {
	n, err := f.ReadUint32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", trajerr.FormatError("xdr.File.ReadGromacsString", fmt.Errorf("zero-length Gromacs string"))
	}
	data, err := f.readN(int(n) - 1)
	if err != nil {
		return "", err
	}
	if p := pad4(int(n) - 1); p > 0 {
		if _, err := f.readN(p); err != nil {
			return "", err
		}
	}
	return string(data), nil
}

// WriteGromacsString writes s in the GROMACS string encoding: a u32 length
// including the implied NUL terminator, the bytes of s with no terminator,
// padded to a 4-byte boundary.
func (f *File) WriteGromacsString(s string) error {
	if err := f.WriteUint32(uint32(len(s) + 1)); err != nil {
		return err
	}
	if err := f.write([]byte(s)); err != nil {
		return err
	}
	if p := pad4(len(s)); p > 0 {
		return f.write(make([]byte, p))
	}
	return nil
}
