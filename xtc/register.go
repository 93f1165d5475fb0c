package xtc

import "github.com/chemtraj/trajlib/format"

func init() {
	format.DefaultRegistry().Register(format.Metadata{
		Name:      "XTC",
		Extension: "xtc",
		Features: format.Features{
			Reads: true, Writes: true, Positions: true, UnitCell: true,
		},
	}, Open)
}
