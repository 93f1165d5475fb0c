// Package amber implements the AMBER and AMBERRESTART NetCDF conventions of
// spec section 4.9: a fixed dimension/variable/attribute vocabulary layered
// on top of netcdf.File, distinguished by the file's Conventions global
// attribute.
//
// Grounded on spec section 4.9's literal vocabulary (dimension names
// frame/atom/spatial/cell_spatial/cell_angular/label, variable names
// coordinates/velocities/cell_lengths/cell_angles, global attributes
// Conventions/ConventionVersion/title/program/programVersion); the Amber
// convention itself has no direct analogue elsewhere in this module, but
// the layering style (a thin convention struct wrapping a lower-level
// codec handle) mirrors netcdf.Variable wrapping netcdf.File.
package amber

import (
	"strings"
)

// Convention distinguishes the two formats layered on netcdf.
type Convention string

const (
	ConventionTrajectory Convention = "AMBER"
	ConventionRestart    Convention = "AMBERRESTART"
)

const conventionVersion = "1.0"

const (
	dimFrame        = "frame"
	dimAtom         = "atom"
	dimSpatial      = "spatial"
	dimCellSpatial  = "cell_spatial"
	dimCellAngular  = "cell_angular"
	dimLabel        = "label"
	dimLabelSize    = 5
	dimSpatialSize  = 3
)

const (
	varCoordinates  = "coordinates"
	varVelocities   = "velocities"
	varCellLengths  = "cell_lengths"
	varCellAngles   = "cell_angles"
	varSpatial      = "spatial"
	varCellSpatial  = "cell_spatial"
	varCellAngular  = "cell_angular"
)

const (
	attrConventions        = "Conventions"
	attrConventionVersion  = "ConventionVersion"
	attrTitle              = "title"
	attrProgram            = "program"
	attrProgramVersion     = "programVersion"
	attrUnits              = "units"
)

const (
	defaultTitle          = "trajlib"
	defaultProgram        = "trajlib"
	defaultProgramVersion = "1.0"
)

// lengthUnits maps a recognized length unit name to its scale factor onto
// Angstrom.
var lengthUnits = map[string]float64{
	"angstrom":   1,
	"angstroms":  1,
	"nanometer":  10,
	"nanometers": 10,
	"nm":         10,
	"bohr":       0.529177249,
	"picometer":  0.01,
	"picometers": 0.01,
}

// angleUnits maps a recognized angle unit name to its scale factor onto
// degrees.
var angleUnits = map[string]float64{
	"degree":  1,
	"degrees": 1,
	"radian":  180 / 3.141592653589793,
	"radians": 180 / 3.141592653589793,
}

// timeUnits maps a recognized time unit name to its scale factor onto
// picoseconds.
var timeUnits = map[string]float64{
	"picosecond":  1,
	"picoseconds": 1,
	"ps":          1,
	"femtosecond": 0.001,
	"fs":          0.001,
	"nanosecond":  1000,
	"ns":          1000,
}

// lengthScale resolves unit (a length-unit string, e.g. an attribute's
// value) to a scale factor onto Angstrom. An unrecognized unit emits a
// warning via the caller and defaults to 1.
func lengthScale(unit string) (float64, bool) {
	s, ok := lengthUnits[strings.ToLower(strings.TrimSpace(unit))]
	return s, ok
}

func angleScale(unit string) (float64, bool) {
	s, ok := angleUnits[strings.ToLower(strings.TrimSpace(unit))]
	return s, ok
}

// velocityScale decomposes a "<length>/<time>" unit string (e.g.
// "angstrom/picosecond") into a single scale factor onto Angstrom/picosecond.
func velocityScale(unit string) (float64, bool) {
	parts := strings.SplitN(unit, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}
	ls, ok := lengthScale(parts[0])
	if !ok {
		return 0, false
	}
	ts, ok := timeUnits[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return 0, false
	}
	return ls / ts, true
}
