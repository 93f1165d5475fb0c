// Package netcdf implements a NetCDF-3 classic (CDF-1/CDF-2) reader and
// writer (spec section 4.8/6.1): header parsing and construction,
// dimensions, global/variable attributes, and record-aware variable
// read/write over the xdr big-endian primitive layer.
//
// There is no reference decoder to port here: the systems this format
// models typically wrap the real libnetcdf C library rather than
// hand-rolling a binary reader. The wire layout below follows spec
// section 4.8/6.1's documentation of the CDF-1/CDF-2 format directly,
// hand-rolled per spec section 9's explicit instruction since no pure-Go
// netcdf binding is available.
package netcdf

import (
	"fmt"

	"github.com/chemtraj/trajlib/trajerr"
)

// Version selects the 32-bit (CDF-1) or 64-bit (CDF-2) offset format.
type Version int

const (
	CDF1 Version = iota
	CDF2
)

var magic = map[Version][4]byte{
	CDF1: {'C', 'D', 'F', 1},
	CDF2: {'C', 'D', 'F', 2},
}

// Type is a NetCDF classic primitive element type. Values match the real
// NC_* constants so on-disk type tags are unambiguous.
type Type int32

const (
	TypeByte   Type = 1
	TypeChar   Type = 2
	TypeShort  Type = 3
	TypeInt    Type = 4
	TypeFloat  Type = 5
	TypeDouble Type = 6
)

// byteSize returns the on-disk size of one element of t.
func (t Type) byteSize() int {
	switch t {
	case TypeByte, TypeChar:
		return 1
	case TypeShort:
		return 2
	case TypeInt, TypeFloat:
		return 4
	case TypeDouble:
		return 8
	default:
		return 0
	}
}

const (
	tagDimension = 0x0A
	tagVariable  = 0x0B
	tagAttribute = 0x0C
	recordUnlimited = 0
)

// Dimension is one named axis. Size 0 marks the (at most one) record
// dimension, whose true length is tracked by the header's numrecs field.
type Dimension struct {
	Name string
	Size int
}

func (d Dimension) isRecord() bool { return d.Size == 0 }

// Attribute is a named, typed value attached to the file or to a
// variable. Char-typed attributes carry their value in Text; every other
// type carries it in Numbers.
type Attribute struct {
	Name    string
	Type    Type
	Text    string
	Numbers []float64
}

// TextAttribute builds a Char-typed attribute, the only kind Amber NetCDF
// actually uses (Conventions, title, units, ...).
func TextAttribute(name, value string) Attribute {
	return Attribute{Name: name, Type: TypeChar, Text: value}
}

// NumericAttribute builds a numeric attribute of the given type.
func NumericAttribute(name string, typ Type, values []float64) Attribute {
	return Attribute{Name: name, Type: typ, Numbers: values}
}

func errFormat(op string, format string, args ...interface{}) error {
	return trajerr.FormatError(op, fmt.Errorf(format, args...))
}
