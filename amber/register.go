package amber

import "github.com/chemtraj/trajlib/format"

func init() {
	format.DefaultRegistry().Register(format.Metadata{
		Name:      "AMBER",
		Extension: "nc",
		Features: format.Features{
			Reads: true, Writes: true, Positions: true, Velocities: true, UnitCell: true,
		},
	}, func(path string, mode format.Mode) (format.Format, error) {
		return Open(path, mode, ConventionTrajectory)
	})

	format.DefaultRegistry().Register(format.Metadata{
		Name:      "AMBERRESTART",
		Extension: "ncrst",
		Features: format.Features{
			Reads: true, Writes: true, Positions: true, Velocities: true, UnitCell: true,
		},
	}, func(path string, mode format.Mode) (format.Format, error) {
		return Open(path, mode, ConventionRestart)
	})
}
