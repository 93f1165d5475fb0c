package netcdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chemtraj/trajlib/trajerr"
	"github.com/chemtraj/trajlib/xdr"
)

type varSpec struct {
	name     string
	typ      Type
	dimNames []string
	attrs    []Attribute
}

// Builder accumulates dimensions, variables and attributes for a new
// NetCDF-3 classic file, then Finalize computes every variable's vsize and
// file offset, writes the header, and switches the file to data mode
// (spec section 4.8).
type Builder struct {
	version  Version
	dims     []Dimension
	dimIndex map[string]int
	gatts    []Attribute
	varSpecs []*varSpec
}

// NewBuilder starts an empty Builder for the given wire format version.
func NewBuilder(version Version) *Builder {
	return &Builder{version: version, dimIndex: make(map[string]int)}
}

// AddDimension declares a dimension. size == 0 marks the record dimension;
// at most one record dimension is allowed.
func (b *Builder) AddDimension(name string, size int) (int, error) {
	if size == 0 {
		for _, d := range b.dims {
			if d.isRecord() {
				return 0, trajerr.ConfigurationError("netcdf.Builder.AddDimension", fmt.Errorf("record dimension already declared as %q", d.Name))
			}
		}
	}
	b.dims = append(b.dims, Dimension{Name: name, Size: size})
	idx := len(b.dims) - 1
	b.dimIndex[name] = idx
	return idx, nil
}

// AddGlobalAttribute appends a global attribute.
func (b *Builder) AddGlobalAttribute(a Attribute) { b.gatts = append(b.gatts, a) }

// AddVariable declares a variable of typ along the named dimensions
// (which must already be declared), with its own attributes.
func (b *Builder) AddVariable(name string, typ Type, dimNames []string, attrs []Attribute) error {
	for _, dn := range dimNames {
		if _, ok := b.dimIndex[dn]; !ok {
			return trajerr.ConfigurationError("netcdf.Builder.AddVariable", fmt.Errorf("undeclared dimension %q for variable %q", dn, name))
		}
	}
	b.varSpecs = append(b.varSpecs, &varSpec{name: name, typ: typ, dimNames: dimNames, attrs: attrs})
	return nil
}

// Finalize computes vsize/offsets for every variable, writes the header to
// stream, zero-fills non-record variable storage, and returns a ready
// File in data mode with numrecs == 0.
func (b *Builder) Finalize(stream io.ReadWriteSeeker) (*File, error) {
	vars := make([]*Variable, len(b.varSpecs))
	for i, spec := range b.varSpecs {
		dimIDs := make([]int, len(spec.dimNames))
		for d, dn := range spec.dimNames {
			dimIDs[d] = b.dimIndex[dn]
		}
		record := len(dimIDs) > 0 && b.dims[dimIDs[0]].isRecord()
		count := 1
		for _, did := range dimIDs {
			if b.dims[did].isRecord() {
				continue
			}
			count *= b.dims[did].Size
		}
		vsize := count * spec.typ.byteSize()
		if p := pad(vsize); p > 0 {
			vsize += p
		}
		vars[i] = &Variable{
			Name:       spec.name,
			DimIDs:     dimIDs,
			Type:       spec.typ,
			Attributes: spec.attrs,
			VSize:      vsize,
			record:     record,
		}
	}

	var measure bytes.Buffer
	if err := writeHeader(&measure, b.version, 0, b.dims, b.gatts, vars); err != nil {
		return nil, err
	}
	headerSize := int64(measure.Len())

	nonRecordOffset := headerSize
	for _, v := range vars {
		if v.record {
			continue
		}
		v.Begin = nonRecordOffset
		nonRecordOffset += int64(v.VSize)
	}
	recordsStart := nonRecordOffset
	withinRecord := int64(0)
	recordStride := 0
	for _, v := range vars {
		if !v.record {
			continue
		}
		v.Begin = recordsStart + withinRecord
		withinRecord += int64(v.VSize)
		recordStride += v.VSize
	}

	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return nil, trajerr.FileError("netcdf.Builder.Finalize", err)
	}
	if err := writeHeader(stream, b.version, 0, b.dims, b.gatts, vars); err != nil {
		return nil, err
	}

	for _, v := range vars {
		if v.record {
			continue
		}
		if _, err := stream.Seek(v.Begin, io.SeekStart); err != nil {
			return nil, trajerr.FileError("netcdf.Builder.Finalize", err)
		}
		if _, err := stream.Write(make([]byte, v.VSize)); err != nil {
			return nil, trajerr.FileError("netcdf.Builder.Finalize", err)
		}
	}

	f := &File{
		stream:       stream,
		x:            xdr.New(stream),
		version:      b.version,
		dims:         b.dims,
		dimIndex:     b.dimIndex,
		globalAttrs:  b.gatts,
		vars:         vars,
		varIndex:     make(map[string]int, len(vars)),
		numrecs:      0,
		recordStride: recordStride,
		headerSize:   headerSize,
	}
	for i, v := range vars {
		v.file = f
		f.varIndex[v.Name] = i
	}
	return f, nil
}

func writeHeader(w io.Writer, version Version, numrecs int32, dims []Dimension, gatts []Attribute, vars []*Variable) error {
	rw, ok := w.(io.ReadWriter)
	if !ok {
		rw = readWriterOf(w)
	}
	x := xdr.New(rw)
	if _, err := w.Write(magicSlice(version)); err != nil {
		return trajerr.FileError("netcdf.writeHeader", err)
	}
	if err := x.WriteInt32(numrecs); err != nil {
		return err
	}
	if err := writeDimList(x, dims); err != nil {
		return err
	}
	if err := writeAttrList(x, gatts); err != nil {
		return err
	}
	if err := writeVarList(x, version, vars); err != nil {
		return err
	}
	return nil
}

func magicSlice(v Version) []byte {
	m := magic[v]
	return m[:]
}

// readWriterOf adapts a write-only stream (the measuring bytes.Buffer
// already satisfies io.ReadWriter, but a plain io.Writer parameter might
// not) into an io.ReadWriter for xdr.New, which never actually reads
// during a header write.
type writeOnlyReadWriter struct{ io.Writer }

func (writeOnlyReadWriter) Read(p []byte) (int, error) { return 0, io.EOF }

func readWriterOf(w io.Writer) io.ReadWriter { return writeOnlyReadWriter{w} }

func writeListHeader(x *xdr.File, tag int32, nelems int) error {
	if nelems == 0 {
		if err := x.WriteInt32(0); err != nil {
			return err
		}
		return x.WriteInt32(0)
	}
	if err := x.WriteInt32(tag); err != nil {
		return err
	}
	return x.WriteInt32(int32(nelems))
}

func writeDimList(x *xdr.File, dims []Dimension) error {
	if err := writeListHeader(x, tagDimension, len(dims)); err != nil {
		return err
	}
	for _, d := range dims {
		if err := x.WriteOpaque([]byte(d.Name)); err != nil {
			return err
		}
		if err := x.WriteInt32(int32(d.Size)); err != nil {
			return err
		}
	}
	return nil
}

func writeAttrList(x *xdr.File, attrs []Attribute) error {
	if err := writeListHeader(x, tagAttribute, len(attrs)); err != nil {
		return err
	}
	for _, a := range attrs {
		if err := x.WriteOpaque([]byte(a.Name)); err != nil {
			return err
		}
		if err := x.WriteInt32(int32(a.Type)); err != nil {
			return err
		}
		if a.Type == TypeChar {
			if err := x.WriteInt32(int32(len(a.Text))); err != nil {
				return err
			}
			if err := writeExactPadded(x.Raw(), []byte(a.Text)); err != nil {
				return err
			}
		} else {
			if err := x.WriteInt32(int32(len(a.Numbers))); err != nil {
				return err
			}
			if err := writeExactPadded(x.Raw(), encodeNumeric(a.Numbers, a.Type)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeVarList(x *xdr.File, version Version, vars []*Variable) error {
	if err := writeListHeader(x, tagVariable, len(vars)); err != nil {
		return err
	}
	for _, v := range vars {
		if err := x.WriteOpaque([]byte(v.Name)); err != nil {
			return err
		}
		if err := x.WriteInt32(int32(len(v.DimIDs))); err != nil {
			return err
		}
		for _, id := range v.DimIDs {
			if err := x.WriteInt32(int32(id)); err != nil {
				return err
			}
		}
		if err := writeAttrList(x, v.Attributes); err != nil {
			return err
		}
		if err := x.WriteInt32(int32(v.Type)); err != nil {
			return err
		}
		if err := x.WriteInt32(int32(v.VSize)); err != nil {
			return err
		}
		if version == CDF1 {
			if err := x.WriteInt32(int32(v.Begin)); err != nil {
				return err
			}
		} else {
			if err := x.WriteInt64(v.Begin); err != nil {
				return err
			}
		}
	}
	return nil
}
