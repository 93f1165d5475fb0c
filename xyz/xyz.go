// Package xyz implements the plain XYZ text trajectory format on top of
// textformat: two header lines (atom count, free-form comment) followed by
// one "element x y z" line per atom. The comment line is kept verbatim;
// extended-XYZ key=value fields in it are not parsed.
//
// Grounded in the XYZ format's own element-symbol-keyed atom records for
// the per-atom line shape, and included per spec section 9's guidance to
// keep one illustrative text format exercising the registry's
// Levenshtein-suggestion path (Scenario F) beyond LAMMPS.
package xyz

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chemtraj/trajlib/format"
	"github.com/chemtraj/trajlib/frame"
	"github.com/chemtraj/trajlib/geometry"
	"github.com/chemtraj/trajlib/property"
	"github.com/chemtraj/trajlib/textformat"
)

const commentProperty = "xyz_comment"

// codec implements textformat.Codec for the XYZ format.
type codec struct{}

func (codec) ReadStep(lr *textformat.LineReader, fr *frame.Frame) error {
	header, err := lr.ReadLine()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil {
		return fmt.Errorf("xyz: expected atom count, got %q: %w", header, err)
	}

	comment, err := lr.ReadLine()
	if err != nil {
		return fmt.Errorf("xyz: truncated header: %w", err)
	}

	fr.Resize(n)
	fr.Properties.Set(commentProperty, property.NewString(comment))

	for i := 0; i < n; i++ {
		line, err := lr.ReadLine()
		if err != nil {
			return fmt.Errorf("xyz: truncated frame at atom %d: %w", i, err)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return fmt.Errorf("xyz: malformed atom line %q", line)
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("xyz: bad x coordinate in %q: %w", line, err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("xyz: bad y coordinate in %q: %w", line, err)
		}
		z, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return fmt.Errorf("xyz: bad z coordinate in %q: %w", line, err)
		}
		a, err := fr.Topology.Atom(i)
		if err != nil {
			return err
		}
		a.Name = fields[0]
		a.Type = fields[0]
		fr.Positions[i] = geometry.NewVector3D(x, y, z)
	}
	return nil
}

func (codec) WriteStep(w io.Writer, fr *frame.Frame) error {
	comment := ""
	if p, ok := fr.Properties.Get(commentProperty); ok {
		if s, err := p.String(); err == nil {
			comment = s
		}
	}
	if _, err := fmt.Fprintf(w, "%d\n%s\n", fr.Size(), comment); err != nil {
		return err
	}
	for i, pos := range fr.Positions {
		a, err := fr.Topology.Atom(i)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s %.6f %.6f %.6f\n", a.Name, pos[0], pos[1], pos[2]); err != nil {
			return err
		}
	}
	return nil
}

// Open opens path as an XYZ trajectory.
func Open(path string, mode format.Mode) (format.Format, error) {
	return textformat.Open(path, mode, codec{})
}

func init() {
	format.DefaultRegistry().Register(format.Metadata{
		Name:      "XYZ",
		Extension: "xyz",
		Features: format.Features{
			Reads: true, Writes: true, MemoryBuffer: false, Positions: true, Atoms: true,
		},
	}, Open)
}
