package amber

import (
	"fmt"
	"os"

	"github.com/chemtraj/trajlib/cell"
	"github.com/chemtraj/trajlib/format"
	"github.com/chemtraj/trajlib/frame"
	"github.com/chemtraj/trajlib/geometry"
	"github.com/chemtraj/trajlib/netcdf"
	"github.com/chemtraj/trajlib/property"
	"github.com/chemtraj/trajlib/trajerr"
	"github.com/chemtraj/trajlib/warnings"
)

// File is an open AMBER or AMBERRESTART trajectory/restart file, one
// netcdf.File underneath with the fixed vocabulary of spec section 4.9
// layered on top.
type File struct {
	osFile     *os.File
	nc         *netcdf.File
	mode       format.Mode
	convention Convention

	dtype      netcdf.Type
	nAtoms     int
	hasVel     bool
	hasCell    bool
	coordScale float64
	velScale   float64
	angScale   float64

	coordVar *netcdf.Variable
	velVar   *netcdf.Variable
	lenVar   *netcdf.Variable
	angVar   *netcdf.Variable

	cursor  int
	written bool
}

// Open opens path under the given convention and mode.
func Open(path string, mode format.Mode, convention Convention) (*File, error) {
	switch mode {
	case format.ModeRead:
		return openRead(path, convention)
	case format.ModeWrite:
		return openWrite(path, convention)
	case format.ModeAppend:
		return openAppend(path, convention)
	default:
		return nil, trajerr.ConfigurationError("amber.Open", fmt.Errorf("unknown mode %v", mode))
	}
}

func openRead(path string, convention Convention) (*File, error) {
	osFile, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, trajerr.FileError("amber.Open", err)
	}
	nc, err := netcdf.Open(osFile)
	if err != nil {
		osFile.Close()
		return nil, err
	}
	a := &File{osFile: osFile, nc: nc, mode: format.ModeRead, convention: convention, written: true}
	if err := a.bindExisting(); err != nil {
		osFile.Close()
		return nil, err
	}
	return a, nil
}

func openWrite(path string, convention Convention) (*File, error) {
	osFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, trajerr.FileError("amber.Open", err)
	}
	return &File{osFile: osFile, mode: format.ModeWrite, convention: convention}, nil
}

func openAppend(path string, convention Convention) (*File, error) {
	osFile, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, trajerr.FileError("amber.Open", err)
	}
	nc, err := netcdf.Open(osFile)
	if err != nil {
		osFile.Close()
		return nil, err
	}
	a := &File{osFile: osFile, nc: nc, mode: format.ModeAppend, convention: convention, written: nc.NumRecs() > 0}
	if err := a.bindExisting(); err != nil {
		osFile.Close()
		return nil, err
	}
	return a, nil
}

// bindExisting validates an already-parsed netcdf.File against the
// convention's required vocabulary and resolves variable handles.
func (a *File) bindExisting() error {
	conv, ok := a.nc.Attribute(attrConventions)
	if !ok || conv.Text != string(a.convention) {
		return trajerr.FormatError("amber.bindExisting", fmt.Errorf("missing or mismatched %s attribute", attrConventions))
	}
	ver, ok := a.nc.Attribute(attrConventionVersion)
	if !ok || ver.Text != conventionVersion {
		return trajerr.FormatError("amber.bindExisting", fmt.Errorf("unsupported %s %q", attrConventionVersion, ver.Text))
	}
	spatial, ok := a.nc.Dimension(dimSpatial)
	if !ok || spatial != dimSpatialSize {
		return trajerr.FormatError("amber.bindExisting", fmt.Errorf("missing or wrong-sized %q dimension", dimSpatial))
	}
	nAtoms, ok := a.nc.Dimension(dimAtom)
	if !ok {
		return trajerr.FormatError("amber.bindExisting", fmt.Errorf("missing %q dimension", dimAtom))
	}
	a.nAtoms = nAtoms

	coordVar, ok := a.nc.Variable(varCoordinates)
	if !ok {
		return trajerr.FormatError("amber.bindExisting", fmt.Errorf("missing %q variable", varCoordinates))
	}
	a.coordVar = coordVar
	a.dtype = coordVar.Type
	if a.convention == ConventionTrajectory && !coordVar.IsRecord() {
		return trajerr.FormatError("amber.bindExisting", fmt.Errorf("%q must be record-indexed for %s", varCoordinates, ConventionTrajectory))
	}
	if a.convention == ConventionRestart && coordVar.IsRecord() {
		return trajerr.FormatError("amber.bindExisting", fmt.Errorf("%q must not be record-indexed for %s", varCoordinates, ConventionRestart))
	}
	a.coordScale = a.resolveLengthScale(coordVar)

	if v, ok := a.nc.Variable(varVelocities); ok {
		a.velVar = v
		a.hasVel = true
		a.velScale = a.resolveVelocityScale(v)
	}
	if v, ok := a.nc.Variable(varCellLengths); ok {
		a.lenVar = v
		a.hasCell = true
		a.angScale = 1
		if v2, ok := a.nc.Variable(varCellAngles); ok {
			a.angVar = v2
			a.angScale = a.resolveAngleScale(v2)
		}
	}
	return nil
}

func (a *File) resolveLengthScale(v *netcdf.Variable) float64 {
	unitsAttr, ok := v.Attribute(attrUnits)
	if !ok {
		return 1
	}
	s, ok := lengthScale(unitsAttr.Text)
	if !ok {
		warnings.Emit("amber.resolveLengthScale", fmt.Sprintf("unknown length unit %q, defaulting to scale 1", unitsAttr.Text))
		return 1
	}
	return s
}

func (a *File) resolveAngleScale(v *netcdf.Variable) float64 {
	unitsAttr, ok := v.Attribute(attrUnits)
	if !ok {
		return 1
	}
	s, ok := angleScale(unitsAttr.Text)
	if !ok {
		warnings.Emit("amber.resolveAngleScale", fmt.Sprintf("unknown angle unit %q, defaulting to scale 1", unitsAttr.Text))
		return 1
	}
	return s
}

func (a *File) resolveVelocityScale(v *netcdf.Variable) float64 {
	unitsAttr, ok := v.Attribute(attrUnits)
	if !ok {
		return 1
	}
	s, ok := velocityScale(unitsAttr.Text)
	if !ok {
		warnings.Emit("amber.resolveVelocityScale", fmt.Sprintf("unknown velocity unit %q, defaulting to scale 1", unitsAttr.Text))
		return 1
	}
	return s
}

// NSteps reports how many frames are available to read.
func (a *File) NSteps() int {
	if a.nc == nil {
		return 0
	}
	if a.convention == ConventionTrajectory {
		return a.nc.NumRecs()
	}
	if a.written {
		return 1
	}
	return 0
}

// Read reads the next frame in sequence.
func (a *File) Read(f *frame.Frame) error {
	if err := a.ReadStep(a.cursor, f); err != nil {
		return err
	}
	a.cursor++
	return nil
}

// ReadStep reads frame step into f.
func (a *File) ReadStep(step int, f *frame.Frame) error {
	if a.nc == nil {
		return trajerr.FormatError("amber.File.ReadStep", fmt.Errorf("file not open for reading"))
	}
	if step < 0 || step >= a.NSteps() {
		return trajerr.OutOfBounds("amber.File.ReadStep", fmt.Errorf("step %d out of range [0,%d)", step, a.NSteps()))
	}
	record := 0
	if a.coordVar.IsRecord() {
		record = step
	}

	flat, err := a.readVarAsFloat64(a.coordVar, record)
	if err != nil {
		return err
	}
	f.Resize(a.nAtoms)
	for i := 0; i < a.nAtoms; i++ {
		f.Positions[i] = geometry.NewVector3D(flat[3*i]*a.coordScale, flat[3*i+1]*a.coordScale, flat[3*i+2]*a.coordScale)
	}

	if a.hasVel {
		f.EnableVelocities()
		vflat, err := a.readVarAsFloat64(a.velVar, record)
		if err != nil {
			return err
		}
		for i := 0; i < a.nAtoms; i++ {
			f.Velocities[i] = geometry.NewVector3D(vflat[3*i]*a.velScale, vflat[3*i+1]*a.velScale, vflat[3*i+2]*a.velScale)
		}
	}

	if a.hasCell {
		lrec := 0
		if a.lenVar.IsRecord() {
			lrec = step
		}
		lens, err := a.readVarAsFloat64(a.lenVar, lrec)
		if err != nil {
			return err
		}
		angles := []float64{90, 90, 90}
		if a.angVar != nil {
			arec := 0
			if a.angVar.IsRecord() {
				arec = step
			}
			angles, err = a.readVarAsFloat64(a.angVar, arec)
			if err != nil {
				return err
			}
			for i := range angles {
				angles[i] *= a.angScale
			}
		}
		f.Cell = cell.NewFromLengthsAngles(lens[0]*a.coordScale, lens[1]*a.coordScale, lens[2]*a.coordScale, angles[0], angles[1], angles[2])
	}

	f.Step = uint64(step)
	if title, ok := a.nc.Attribute(attrTitle); ok {
		f.Properties.Set("title", property.NewString(title.Text))
	}
	return nil
}

func (a *File) readVarAsFloat64(v *netcdf.Variable, record int) ([]float64, error) {
	if v.Type == netcdf.TypeDouble {
		return v.ReadDoubles(record)
	}
	flat, err := v.ReadFloats(record)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(flat))
	for i, x := range flat {
		out[i] = float64(x)
	}
	return out, nil
}

// Write appends f as a new frame (trajectory) or writes the single frame
// (restart). A second Write on an AMBERRESTART file fails.
func (a *File) Write(f *frame.Frame) error {
	if a.convention == ConventionRestart && a.written {
		return trajerr.FormatError("amber.File.Write", fmt.Errorf("%s already written; restart files hold exactly one frame", ConventionRestart))
	}
	if a.nc == nil {
		if err := a.initializeHeader(f); err != nil {
			return err
		}
	}
	if f.Size() != a.nAtoms {
		return trajerr.FormatError("amber.File.Write", fmt.Errorf("frame has %d atoms, file declared %d", f.Size(), a.nAtoms))
	}

	record := 0
	if a.coordVar.IsRecord() {
		record = a.nc.NumRecs()
	}

	flat := make([]float64, 3*a.nAtoms)
	for i, p := range f.Positions {
		flat[3*i], flat[3*i+1], flat[3*i+2] = p[0], p[1], p[2]
	}
	if err := a.writeVarFromFloat64(a.coordVar, record, flat); err != nil {
		return err
	}

	if a.hasVel {
		vflat := make([]float64, 3*a.nAtoms)
		if f.HasVelocities() {
			for i, v := range f.Velocities {
				vflat[3*i], vflat[3*i+1], vflat[3*i+2] = v[0], v[1], v[2]
			}
		}
		vrec := 0
		if a.velVar.IsRecord() {
			vrec = record
		}
		if err := a.writeVarFromFloat64(a.velVar, vrec, vflat); err != nil {
			return err
		}
	}

	if a.hasCell {
		lenA, lenB, lenC := f.Cell.Lengths()
		alpha, beta, gamma := f.Cell.Angles()
		lrec, arec := 0, 0
		if a.lenVar.IsRecord() {
			lrec = record
		}
		if err := a.writeVarFromFloat64(a.lenVar, lrec, []float64{lenA, lenB, lenC}); err != nil {
			return err
		}
		if a.angVar != nil {
			if a.angVar.IsRecord() {
				arec = record
			}
			if err := a.writeVarFromFloat64(a.angVar, arec, []float64{alpha, beta, gamma}); err != nil {
				return err
			}
		}
	}

	a.written = true
	return nil
}

func (a *File) writeVarFromFloat64(v *netcdf.Variable, record int, data []float64) error {
	if v.Type == netcdf.TypeDouble {
		return v.WriteDoubles(record, data)
	}
	flat := make([]float32, len(data))
	for i, x := range data {
		flat[i] = float32(x)
	}
	return v.WriteFloats(record, flat)
}

// initializeHeader builds the netcdf header from the first written frame's
// shape (atom count, velocities enabled, cell present).
func (a *File) initializeHeader(f *frame.Frame) error {
	a.nAtoms = f.Size()
	a.hasVel = f.HasVelocities()
	a.hasCell = f.Cell.Shape() != cell.Infinite
	if a.convention == ConventionTrajectory {
		a.dtype = netcdf.TypeFloat
	} else {
		a.dtype = netcdf.TypeDouble
	}

	b := netcdf.NewBuilder(netcdf.CDF1)
	if a.convention == ConventionTrajectory {
		if _, err := b.AddDimension(dimFrame, 0); err != nil {
			return err
		}
	}
	if _, err := b.AddDimension(dimAtom, a.nAtoms); err != nil {
		return err
	}
	if _, err := b.AddDimension(dimSpatial, dimSpatialSize); err != nil {
		return err
	}
	if a.hasCell {
		if _, err := b.AddDimension(dimCellSpatial, dimSpatialSize); err != nil {
			return err
		}
		if _, err := b.AddDimension(dimCellAngular, dimSpatialSize); err != nil {
			return err
		}
	}

	title := defaultTitle
	if t, ok := f.Properties.Get("title"); ok {
		if s, err := t.String(); err == nil {
			title = s
		}
	}
	if len(title) > dimLabelSize {
		title = title[:dimLabelSize]
	}

	b.AddGlobalAttribute(netcdf.TextAttribute(attrConventions, string(a.convention)))
	b.AddGlobalAttribute(netcdf.TextAttribute(attrConventionVersion, conventionVersion))
	b.AddGlobalAttribute(netcdf.TextAttribute(attrTitle, title))
	b.AddGlobalAttribute(netcdf.TextAttribute(attrProgram, defaultProgram))
	b.AddGlobalAttribute(netcdf.TextAttribute(attrProgramVersion, defaultProgramVersion))

	coordDims := []string{dimAtom, dimSpatial}
	if a.convention == ConventionTrajectory {
		coordDims = []string{dimFrame, dimAtom, dimSpatial}
	}
	if err := b.AddVariable(varCoordinates, a.dtype, coordDims, []netcdf.Attribute{netcdf.TextAttribute(attrUnits, "angstrom")}); err != nil {
		return err
	}
	if a.hasVel {
		if err := b.AddVariable(varVelocities, a.dtype, coordDims, []netcdf.Attribute{netcdf.TextAttribute(attrUnits, "angstrom/picosecond")}); err != nil {
			return err
		}
	}
	if a.hasCell {
		lenDims := []string{dimCellSpatial}
		angDims := []string{dimCellAngular}
		if a.convention == ConventionTrajectory {
			lenDims = []string{dimFrame, dimCellSpatial}
			angDims = []string{dimFrame, dimCellAngular}
		}
		if err := b.AddVariable(varCellLengths, netcdf.TypeDouble, lenDims, []netcdf.Attribute{netcdf.TextAttribute(attrUnits, "angstrom")}); err != nil {
			return err
		}
		if err := b.AddVariable(varCellAngles, netcdf.TypeDouble, angDims, []netcdf.Attribute{netcdf.TextAttribute(attrUnits, "degree")}); err != nil {
			return err
		}
	}

	nc, err := b.Finalize(a.osFile)
	if err != nil {
		return err
	}
	a.nc = nc
	a.coordScale = 1
	a.velScale = 1
	a.angScale = 1
	coordVar, _ := nc.Variable(varCoordinates)
	a.coordVar = coordVar
	if a.hasVel {
		a.velVar, _ = nc.Variable(varVelocities)
	}
	if a.hasCell {
		a.lenVar, _ = nc.Variable(varCellLengths)
		a.angVar, _ = nc.Variable(varCellAngles)
	}
	return nil
}

// Close closes the underlying OS file.
func (a *File) Close() error {
	if err := a.osFile.Close(); err != nil {
		return trajerr.FileError("amber.File.Close", err)
	}
	return nil
}
