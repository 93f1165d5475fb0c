package trr

import "github.com/chemtraj/trajlib/format"

func init() {
	format.DefaultRegistry().Register(format.Metadata{
		Name:      "TRR",
		Extension: "trr",
		Features: format.Features{
			Reads: true, Writes: true, Positions: true, Velocities: true, UnitCell: true,
		},
	}, Open)
}
