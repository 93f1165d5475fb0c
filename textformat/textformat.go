// Package textformat implements the generic line-oriented format scaffold
// of spec section 4.7: a one-time forward scan at construction time builds
// a byte-offset index of step boundaries, so that every text format built
// on top gets O(1) random access after a single O(N) pass, instead of
// re-scanning from the start on every ReadStep call.
//
// The scan/index/seek shape mirrors trr's own forward-scan offset index
// (trr/file.go): a single O(N) pass at open time records each step's
// starting offset, so ReadStep becomes a seek plus one parse.
package textformat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chemtraj/trajlib/format"
	"github.com/chemtraj/trajlib/frame"
	"github.com/chemtraj/trajlib/trajerr"
)

// LineReader wraps an *os.File with a buffered line reader that tracks its
// own absolute byte offset, so a format's ReadStep callback can report
// "exactly one step, starting here" without the caller re-deriving the
// offset from the file descriptor after every read.
type LineReader struct {
	file   *os.File
	reader *bufio.Reader
	offset int64
}

// NewLineReader builds a LineReader positioned at f's current offset.
func NewLineReader(f *os.File) *LineReader {
	return &LineReader{file: f, reader: bufio.NewReader(f)}
}

// Offset returns the current absolute byte offset.
func (lr *LineReader) Offset() int64 { return lr.offset }

// Seek repositions the reader at offset, discarding any buffered data.
func (lr *LineReader) Seek(offset int64) error {
	if _, err := lr.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	lr.reader.Reset(lr.file)
	lr.offset = offset
	return nil
}

// ReadLine returns the next line with its trailing newline stripped.
// Returns io.EOF only when zero bytes remain; a final line with no
// trailing newline is still returned with a nil error, matching
// bufio.Reader.ReadString's own convention.
func (lr *LineReader) ReadLine() (string, error) {
	line, err := lr.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	lr.offset += int64(len(line))
	if len(line) == 0 {
		return "", io.EOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Codec is implemented by each line-oriented format (lammps, xyz): it owns
// the actual per-step parsing and serialization, while TextFormat owns the
// scan/seek/index machinery every such format needs identically.
type Codec interface {
	// ReadStep parses exactly one step from lr, which is positioned at the
	// step's first byte, into fr. Returns io.EOF when no step remains.
	ReadStep(lr *LineReader, fr *frame.Frame) error
	// WriteStep appends fr's text representation to w.
	WriteStep(w io.Writer, fr *frame.Frame) error
}

// TextFormat is the format.Format implementation shared by every text
// codec in this module.
type TextFormat struct {
	osFile  *os.File
	lr      *LineReader
	codec   Codec
	mode    format.Mode
	offsets []int64
	cursor  int
}

// Open opens path in the given mode, scanning it for step offsets when
// opening for read or append.
func Open(path string, mode format.Mode, codec Codec) (*TextFormat, error) {
	switch mode {
	case format.ModeRead:
		osFile, err := os.Open(path)
		if err != nil {
			return nil, trajerr.FileError("textformat.Open", err)
		}
		tf := &TextFormat{osFile: osFile, lr: NewLineReader(osFile), codec: codec, mode: mode}
		if err := tf.scan(); err != nil {
			osFile.Close()
			return nil, err
		}
		return tf, nil
	case format.ModeWrite:
		osFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return nil, trajerr.FileError("textformat.Open", err)
		}
		return &TextFormat{osFile: osFile, codec: codec, mode: mode}, nil
	case format.ModeAppend:
		osFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
		if err != nil {
			return nil, trajerr.FileError("textformat.Open", err)
		}
		tf := &TextFormat{osFile: osFile, lr: NewLineReader(osFile), codec: codec, mode: mode}
		if err := tf.scan(); err != nil {
			osFile.Close()
			return nil, err
		}
		if _, err := osFile.Seek(0, io.SeekEnd); err != nil {
			osFile.Close()
			return nil, trajerr.FileError("textformat.Open", err)
		}
		return tf, nil
	default:
		return nil, trajerr.ConfigurationError("textformat.Open", fmt.Errorf("unknown mode %v", mode))
	}
}

// scan performs the one-time forward pass building the step-offset index,
// per spec section 4.7: each call to the codec's ReadStep either returns
// the start of a step (recorded alongside the offset observed before the
// call) or io.EOF.
func (tf *TextFormat) scan() error {
	if err := tf.lr.Seek(0); err != nil {
		return trajerr.FileError("textformat.TextFormat.scan", err)
	}
	scratch := frame.New()
	for {
		offset := tf.lr.Offset()
		err := tf.codec.ReadStep(tf.lr, scratch)
		if err == io.EOF {
			break
		}
		if err != nil {
			return trajerr.FormatError("textformat.TextFormat.scan", err)
		}
		tf.offsets = append(tf.offsets, offset)
	}
	return nil
}

// NSteps reports how many steps the forward scan found.
func (tf *TextFormat) NSteps() int { return len(tf.offsets) }

// Read reads the next step in sequence.
func (tf *TextFormat) Read(fr *frame.Frame) error {
	if err := tf.ReadStep(tf.cursor, fr); err != nil {
		return err
	}
	tf.cursor++
	return nil
}

// ReadStep seeks to step's recorded offset and parses it into fr.
func (tf *TextFormat) ReadStep(step int, fr *frame.Frame) error {
	if step < 0 || step >= len(tf.offsets) {
		return trajerr.OutOfBounds("textformat.TextFormat.ReadStep", fmt.Errorf("step %d out of range [0,%d)", step, len(tf.offsets)))
	}
	if err := tf.lr.Seek(tf.offsets[step]); err != nil {
		return trajerr.FileError("textformat.TextFormat.ReadStep", err)
	}
	if err := tf.codec.ReadStep(tf.lr, fr); err != nil {
		return trajerr.FormatError("textformat.TextFormat.ReadStep", err)
	}
	return nil
}

// Write appends fr. Only valid in write or append mode.
func (tf *TextFormat) Write(fr *frame.Frame) error {
	if tf.mode == format.ModeRead {
		return trajerr.FormatError("textformat.TextFormat.Write", fmt.Errorf("format opened read-only"))
	}
	if err := tf.codec.WriteStep(tf.osFile, fr); err != nil {
		return trajerr.FormatError("textformat.TextFormat.Write", err)
	}
	return nil
}

// Close closes the underlying OS file.
func (tf *TextFormat) Close() error {
	if err := tf.osFile.Close(); err != nil {
		return trajerr.FileError("textformat.TextFormat.Close", err)
	}
	return nil
}
