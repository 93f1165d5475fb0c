// Package trajectory implements the Trajectory driver of spec section 6.2:
// mode-aware file opening, format resolution through format.Registry,
// step-indexed random-access reads, append-only writes, and deterministic
// close-on-drop semantics.
//
// Grounded on the façade shape used elsewhere in this module: a thin struct
// holding no algorithms of its own, delegating every operation to the
// format.Format instance it owns.
package trajectory

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chemtraj/trajlib/format"
	"github.com/chemtraj/trajlib/frame"
	"github.com/chemtraj/trajlib/trajerr"
)

// OpenOption customizes Open in the functional-option style.
type OpenOption func(*openConfig)

type openConfig struct {
	formatName string
	registry   *format.Registry
}

// WithFormat forces format resolution by explicit name instead of by the
// path's extension.
func WithFormat(name string) OpenOption {
	return func(c *openConfig) { c.formatName = name }
}

// WithRegistry opens against a specific Registry instead of
// format.DefaultRegistry(). Useful for tests that register fake formats
// without touching the process-wide default.
func WithRegistry(r *format.Registry) OpenOption {
	return func(c *openConfig) { c.registry = r }
}

// Trajectory owns exactly one format.Format instance and tracks the
// per-instance step counter described in spec section 5: reads advance it,
// ReadStep may reset it, writes append in call order. Two Trajectory
// instances never share state, even against the same file.
type Trajectory struct {
	f        format.Format
	mode     format.Mode
	metadata format.Metadata
	cursor   int
	closed   bool
}

// Open opens path in the given mode, resolving a format.Format either by
// an explicit WithFormat option or by path's extension, per spec section
// 4.6/6.2.
func Open(path string, mode format.Mode, opts ...OpenOption) (*Trajectory, error) {
	cfg := openConfig{registry: format.DefaultRegistry()}
	for _, opt := range opts {
		opt(&cfg)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	factory, metadata, err := cfg.registry.Resolve(cfg.formatName, ext)
	if err != nil {
		return nil, err
	}
	if mode == format.ModeRead && !metadata.Features.Reads {
		return nil, trajerr.FormatError("trajectory.Open", fmt.Errorf("format %q does not support reading", metadata.Name))
	}
	if (mode == format.ModeWrite || mode == format.ModeAppend) && !metadata.Features.Writes {
		return nil, trajerr.FormatError("trajectory.Open", fmt.Errorf("format %q does not support writing", metadata.Name))
	}

	f, err := factory(path, mode)
	if err != nil {
		return nil, err
	}
	return &Trajectory{f: f, mode: mode, metadata: metadata}, nil
}

// Metadata returns the resolved format's registry metadata.
func (t *Trajectory) Metadata() format.Metadata { return t.metadata }

// NSteps returns the number of steps available for random access.
func (t *Trajectory) NSteps() int { return t.f.NSteps() }

// Read reads the next frame in sequence and advances the step counter.
func (t *Trajectory) Read() (*frame.Frame, error) {
	if t.closed {
		return nil, trajerr.FileError("trajectory.Trajectory.Read", fmt.Errorf("trajectory is closed"))
	}
	fr := frame.New()
	if err := t.f.ReadStep(t.cursor, fr); err != nil {
		return nil, err
	}
	t.cursor++
	return fr, nil
}

// ReadStep reads step k, resetting the per-instance step counter to k+1 so
// a subsequent Read continues from the step after k, per spec section 5.
func (t *Trajectory) ReadStep(k int) (*frame.Frame, error) {
	if t.closed {
		return nil, trajerr.FileError("trajectory.Trajectory.ReadStep", fmt.Errorf("trajectory is closed"))
	}
	fr := frame.New()
	if err := t.f.ReadStep(k, fr); err != nil {
		return nil, err
	}
	t.cursor = k + 1
	return fr, nil
}

// Write appends fr to the underlying file. Writes happen in call order,
// per spec section 5.
func (t *Trajectory) Write(fr *frame.Frame) error {
	if t.closed {
		return trajerr.FileError("trajectory.Trajectory.Write", fmt.Errorf("trajectory is closed"))
	}
	if t.mode == format.ModeRead {
		return trajerr.FormatError("trajectory.Trajectory.Write", fmt.Errorf("trajectory opened in read mode"))
	}
	return t.f.Write(fr)
}

// Close closes the underlying format and file handle. Idempotent.
func (t *Trajectory) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.f.Close()
}
