package netcdf

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/chemtraj/trajlib/trajerr"
	"github.com/chemtraj/trajlib/xdr"
)

const numrecsOffset = 4 // numrecs follows the 4-byte magic, fixed regardless of version

// File is an open NetCDF-3 classic file, either parsed from an existing
// stream (read mode) or produced by a Builder (write mode).
type File struct {
	stream   io.ReadWriteSeeker
	x        *xdr.File
	version  Version
	dims     []Dimension
	dimIndex map[string]int

	globalAttrs []Attribute

	vars     []*Variable
	varIndex map[string]int

	numrecs      int
	recordStride int
	headerSize   int64
}

// Open parses an existing NetCDF-3 classic file for reading.
func Open(stream io.ReadWriteSeeker) (*File, error) {
	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return nil, trajerr.FileError("netcdf.Open", err)
	}
	f := &File{stream: stream, x: xdr.New(stream), dimIndex: make(map[string]int), varIndex: make(map[string]int)}
	if err := f.readHeader(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) readHeader() error {
	var magicBuf [4]byte
	if _, err := io.ReadFull(f.stream, magicBuf[:]); err != nil {
		return trajerr.FileError("netcdf.File.readHeader", err)
	}
	switch magicBuf {
	case magic[CDF1]:
		f.version = CDF1
	case magic[CDF2]:
		f.version = CDF2
	default:
		return errFormat("netcdf.File.readHeader", "not a NetCDF classic file: bad magic %v", magicBuf)
	}

	numrecs, err := f.x.ReadInt32()
	if err != nil {
		return err
	}
	f.numrecs = int(numrecs)

	if err := f.readDimList(); err != nil {
		return err
	}
	var gerr error
	f.globalAttrs, gerr = f.readAttrList()
	if gerr != nil {
		return gerr
	}
	if err := f.readVarList(); err != nil {
		return err
	}

	pos, err := f.stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return trajerr.FileError("netcdf.File.readHeader", err)
	}
	f.headerSize = pos

	f.recordStride = 0
	for _, v := range f.vars {
		if v.record {
			f.recordStride += v.VSize
		}
	}
	return nil
}

func (f *File) readName() (string, error) {
	raw, err := f.x.ReadOpaque()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (f *File) writeName(name string) error { return f.x.WriteOpaque([]byte(name)) }

func (f *File) readDimList() error {
	tag, nelems, err := f.readListHeader()
	if err != nil {
		return err
	}
	if tag != 0 && tag != tagDimension {
		return errFormat("netcdf.File.readDimList", "unexpected dim-list tag %#x", tag)
	}
	f.dims = make([]Dimension, nelems)
	for i := 0; i < nelems; i++ {
		name, err := f.readName()
		if err != nil {
			return err
		}
		size, err := f.x.ReadInt32()
		if err != nil {
			return err
		}
		f.dims[i] = Dimension{Name: name, Size: int(size)}
		f.dimIndex[name] = i
	}
	return nil
}

func (f *File) readListHeader() (tag, nelems int, err error) {
	t, err := f.x.ReadInt32()
	if err != nil {
		return 0, 0, err
	}
	n, err := f.x.ReadInt32()
	if err != nil {
		return 0, 0, err
	}
	return int(t), int(n), nil
}

func (f *File) readAttrList() ([]Attribute, error) {
	tag, nelems, err := f.readListHeader()
	if err != nil {
		return nil, err
	}
	if tag != 0 && tag != tagAttribute {
		return nil, errFormat("netcdf.File.readAttrList", "unexpected attr-list tag %#x", tag)
	}
	out := make([]Attribute, nelems)
	for i := 0; i < nelems; i++ {
		name, err := f.readName()
		if err != nil {
			return nil, err
		}
		typVal, err := f.x.ReadInt32()
		if err != nil {
			return nil, err
		}
		typ := Type(typVal)
		count, err := f.x.ReadInt32()
		if err != nil {
			return nil, err
		}
		raw, err := readExactPadded(f.stream, int(count)*typ.byteSize())
		if err != nil {
			return nil, err
		}
		attr := Attribute{Name: name, Type: typ}
		if typ == TypeChar {
			attr.Text = string(raw)
		} else {
			attr.Numbers = decodeNumeric(raw, typ, int(count))
		}
		out[i] = attr
	}
	return out, nil
}

func (f *File) readVarList() error {
	tag, nelems, err := f.readListHeader()
	if err != nil {
		return err
	}
	if tag != 0 && tag != tagVariable {
		return errFormat("netcdf.File.readVarList", "unexpected var-list tag %#x", tag)
	}
	f.vars = make([]*Variable, nelems)
	for i := 0; i < nelems; i++ {
		name, err := f.readName()
		if err != nil {
			return err
		}
		ndims, err := f.x.ReadInt32()
		if err != nil {
			return err
		}
		dimIDs := make([]int, ndims)
		for d := range dimIDs {
			id, err := f.x.ReadInt32()
			if err != nil {
				return err
			}
			dimIDs[d] = int(id)
		}
		attrs, err := f.readAttrList()
		if err != nil {
			return err
		}
		typVal, err := f.x.ReadInt32()
		if err != nil {
			return err
		}
		vsize, err := f.x.ReadInt32()
		if err != nil {
			return err
		}
		var begin int64
		if f.version == CDF1 {
			b, err := f.x.ReadInt32()
			if err != nil {
				return err
			}
			begin = int64(b)
		} else {
			b, err := f.x.ReadInt64()
			if err != nil {
				return err
			}
			begin = b
		}
		record := len(dimIDs) > 0 && f.dims[dimIDs[0]].isRecord()
		v := &Variable{
			file:       f,
			Name:       name,
			DimIDs:     dimIDs,
			Type:       Type(typVal),
			Attributes: attrs,
			VSize:      int(vsize),
			Begin:      begin,
			record:     record,
		}
		f.vars[i] = v
		f.varIndex[name] = i
	}
	return nil
}

// Version reports whether this file uses 32-bit or 64-bit offsets.
func (f *File) Version() Version { return f.version }

// Dimensions returns every dimension, in declaration order.
func (f *File) Dimensions() []Dimension { return f.dims }

// Dimension looks up a dimension's size by name.
func (f *File) Dimension(name string) (int, bool) {
	i, ok := f.dimIndex[name]
	if !ok {
		return 0, false
	}
	if f.dims[i].isRecord() {
		return f.numrecs, true
	}
	return f.dims[i].Size, true
}

// Attributes returns the global attribute list.
func (f *File) Attributes() []Attribute { return f.globalAttrs }

// Attribute looks up a global attribute by name.
func (f *File) Attribute(name string) (Attribute, bool) {
	for _, a := range f.globalAttrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Variables returns every variable, in declaration order.
func (f *File) Variables() []*Variable { return f.vars }

// Variable looks up a variable by name.
func (f *File) Variable(name string) (*Variable, bool) {
	i, ok := f.varIndex[name]
	if !ok {
		return nil, false
	}
	return f.vars[i], true
}

// NumRecs returns the current record count.
func (f *File) NumRecs() int { return f.numrecs }

func (f *File) bumpNumrecs(newCount int) error {
	if newCount <= f.numrecs {
		return nil
	}
	f.numrecs = newCount
	if _, err := f.stream.Seek(numrecsOffset, io.SeekStart); err != nil {
		return trajerr.FileError("netcdf.File.bumpNumrecs", err)
	}
	return f.x.WriteInt32(int32(f.numrecs))
}

func pad(n int) int {
	if rem := n % 4; rem != 0 {
		return 4 - rem
	}
	return 0
}

// readExactPadded reads exactly n bytes, then discards the zero padding
// that brings the total up to a 4-byte boundary.
func readExactPadded(stream io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(stream, buf); err != nil {
			return nil, trajerr.FileError("netcdf.readExactPadded", err)
		}
	}
	if p := pad(n); p > 0 {
		if _, err := io.CopyN(io.Discard, stream, int64(p)); err != nil {
			return nil, trajerr.FileError("netcdf.readExactPadded", err)
		}
	}
	return buf, nil
}

// writeExactPadded writes data then zero-pads it to a 4-byte boundary.
func writeExactPadded(stream io.Writer, data []byte) error {
	if len(data) > 0 {
		if _, err := stream.Write(data); err != nil {
			return trajerr.FileError("netcdf.writeExactPadded", err)
		}
	}
	if p := pad(len(data)); p > 0 {
		if _, err := stream.Write(make([]byte, p)); err != nil {
			return trajerr.FileError("netcdf.writeExactPadded", err)
		}
	}
	return nil
}

// decodeNumeric unpacks count tightly-packed big-endian elements of typ
// out of raw.
func decodeNumeric(raw []byte, typ Type, count int) []float64 {
	out := make([]float64, count)
	sz := typ.byteSize()
	for i := 0; i < count; i++ {
		chunk := raw[i*sz : i*sz+sz]
		switch typ {
		case TypeByte:
			out[i] = float64(int8(chunk[0]))
		case TypeShort:
			out[i] = float64(int16(binary.BigEndian.Uint16(chunk)))
		case TypeInt:
			out[i] = float64(int32(binary.BigEndian.Uint32(chunk)))
		case TypeFloat:
			out[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(chunk)))
		case TypeDouble:
			out[i] = math.Float64frombits(binary.BigEndian.Uint64(chunk))
		}
	}
	return out
}

// encodeNumeric packs values as count tightly-packed big-endian elements
// of typ.
func encodeNumeric(values []float64, typ Type) []byte {
	sz := typ.byteSize()
	out := make([]byte, len(values)*sz)
	for i, v := range values {
		chunk := out[i*sz : i*sz+sz]
		switch typ {
		case TypeByte:
			chunk[0] = byte(int8(v))
		case TypeShort:
			binary.BigEndian.PutUint16(chunk, uint16(int16(v)))
		case TypeInt:
			binary.BigEndian.PutUint32(chunk, uint32(int32(v)))
		case TypeFloat:
			binary.BigEndian.PutUint32(chunk, math.Float32bits(float32(v)))
		case TypeDouble:
			binary.BigEndian.PutUint64(chunk, math.Float64bits(v))
		}
	}
	return out
}
