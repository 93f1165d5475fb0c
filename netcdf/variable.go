package netcdf

import (
	"fmt"
	"io"

	"github.com/chemtraj/trajlib/trajerr"
)

// Variable is one NetCDF variable: a typed, possibly record-indexed array
// with its own attributes.
type Variable struct {
	file       *File
	Name       string
	DimIDs     []int
	Type       Type
	Attributes []Attribute
	VSize      int
	Begin      int64
	record     bool
}

// IsRecord reports whether this variable's leading dimension is the
// record dimension.
func (v *Variable) IsRecord() bool { return v.record }

// Attribute looks up one of this variable's attributes by name.
func (v *Variable) Attribute(name string) (Attribute, bool) {
	for _, a := range v.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

func (v *Variable) offsetFor(record int) (int64, error) {
	if !v.record {
		if record != 0 {
			return 0, trajerr.OutOfBounds("netcdf.Variable.offsetFor", fmt.Errorf("variable %q is not record-indexed", v.Name))
		}
		return v.Begin, nil
	}
	if record < 0 {
		return 0, trajerr.OutOfBounds("netcdf.Variable.offsetFor", fmt.Errorf("negative record %d", record))
	}
	return v.Begin + int64(record)*int64(v.file.recordStride), nil
}

func (v *Variable) seekTo(record int) error {
	off, err := v.offsetFor(record)
	if err != nil {
		return err
	}
	if _, err := v.file.stream.Seek(off, io.SeekStart); err != nil {
		return trajerr.FileError("netcdf.Variable.seekTo", err)
	}
	return nil
}

// count returns the element count implied by vsize and the element
// byte size.
func (v *Variable) count() int {
	sz := v.Type.byteSize()
	if sz == 0 {
		return 0
	}
	return v.VSize / sz
}

// ReadRaw reads the raw vsize-byte slab for the given record (0 for a
// non-record variable).
func (v *Variable) ReadRaw(record int) ([]byte, error) {
	if err := v.seekTo(record); err != nil {
		return nil, err
	}
	buf := make([]byte, v.VSize)
	if _, err := io.ReadFull(v.file.stream, buf); err != nil {
		return nil, trajerr.FileError("netcdf.Variable.ReadRaw", err)
	}
	return buf, nil
}

// WriteRaw writes data (exactly vsize bytes) for the given record,
// bumping the file's record count if record == NumRecs() for a record
// variable.
func (v *Variable) WriteRaw(record int, data []byte) error {
	if len(data) != v.VSize {
		return trajerr.FormatError("netcdf.Variable.WriteRaw", fmt.Errorf("wrote %d bytes, want vsize %d for %q", len(data), v.VSize, v.Name))
	}
	if v.record && record > v.file.numrecs {
		return trajerr.OutOfBounds("netcdf.Variable.WriteRaw", fmt.Errorf("record %d leaves a gap past numrecs %d", record, v.file.numrecs))
	}
	if err := v.seekTo(record); err != nil {
		return err
	}
	if _, err := v.file.stream.Write(data); err != nil {
		return trajerr.FileError("netcdf.Variable.WriteRaw", err)
	}
	if v.record {
		return v.file.bumpNumrecs(record + 1)
	}
	return nil
}

// ReadFloats reads this variable's record as float32 values.
func (v *Variable) ReadFloats(record int) ([]float32, error) {
	raw, err := v.ReadRaw(record)
	if err != nil {
		return nil, err
	}
	nums := decodeNumeric(raw, TypeFloat, v.count())
	out := make([]float32, len(nums))
	for i, n := range nums {
		out[i] = float32(n)
	}
	return out, nil
}

// WriteFloats writes data as this variable's float32 record.
func (v *Variable) WriteFloats(record int, data []float32) error {
	nums := make([]float64, len(data))
	for i, d := range data {
		nums[i] = float64(d)
	}
	return v.WriteRaw(record, encodeNumeric(nums, TypeFloat))
}

// ReadDoubles reads this variable's record as float64 values.
func (v *Variable) ReadDoubles(record int) ([]float64, error) {
	raw, err := v.ReadRaw(record)
	if err != nil {
		return nil, err
	}
	return decodeNumeric(raw, TypeDouble, v.count()), nil
}

// WriteDoubles writes data as this variable's float64 record.
func (v *Variable) WriteDoubles(record int, data []float64) error {
	return v.WriteRaw(record, encodeNumeric(data, TypeDouble))
}

// ReadChars reads this variable's record as a fixed-width string, trimmed
// of trailing NUL padding.
func (v *Variable) ReadChars(record int) (string, error) {
	raw, err := v.ReadRaw(record)
	if err != nil {
		return "", err
	}
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	return string(raw[:end]), nil
}

// WriteChars writes s into this variable's fixed-width char record,
// NUL-padded (or truncated) to vsize bytes.
func (v *Variable) WriteChars(record int, s string) error {
	buf := make([]byte, v.VSize)
	copy(buf, s)
	return v.WriteRaw(record, buf)
}
