// Package trajlib is a chemistry trajectory I/O core: an in-memory data
// model for one simulation frame (atoms, positions, velocities, a
// triclinic unit cell, and a lazily-recomputed bond/angle/dihedral/
// improper connectivity cache) plus a pluggable format layer that maps
// on-disk trajectory representations onto that model and back.
//
// Subpackages, leaves first:
//
//	geometry/     - fixed-size Vector3D/Matrix3D
//	orderedset/   - sorted-vector set, the backbone of Connectivity's caches
//	property/     - tagged-union Property and PropertyMap
//	cell/         - triclinic UnitCell, wrap/fractional/cartesian
//	atom/         - Atom, backed by periodictable/config
//	residue/      - Residue, an ordered atom-index set
//	connectivity/ - Bond/Angle/Dihedral/Improper with canonical ordering
//	topology/     - atom list + residues + Connectivity
//	frame/        - one trajectory step, plus periodic geometric operators
//	bonds/        - VDW-radius bond-guessing heuristic
//	format/       - the Format trait and name/extension registry
//	textformat/   - generic scaffold for line-oriented formats
//	xdr/          - big-endian XDR primitives
//	netcdf/       - hand-rolled NetCDF-3 classic (CDF-1/CDF-2) codec
//	amber/        - Amber NetCDF trajectory and restart conventions
//	xtc/          - GROMACS XTC lossy coordinate compression
//	trr/          - GROMACS TRR uncompressed trajectory format
//	lammps/       - LAMMPS dump trajectory format
//	xyz/          - plain XYZ trajectory format
//	trajectory/   - the Trajectory driver: open/read/read_step/write/close
//
// A Trajectory owns exactly one Format instance for exactly one open file;
// neither holds internal synchronization, so concurrent use of a single
// Trajectory from multiple goroutines is undefined, while independent
// Trajectory instances on distinct files may be used concurrently.
//
// Errors are typed via trajerr.Error (a Kind plus the failing operation
// name); non-fatal anomalies go through the process-wide warnings sink
// instead of being raised.
package trajlib
