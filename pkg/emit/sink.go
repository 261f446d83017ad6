package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// Unit is one generated artifact: a relative output path and the
// rendered content.
type Unit struct {
	Path    string
	Content []byte
}

// Sink receives generated units. Implementations decide where the bytes
// land: disk, a writer, or a test capture.
type Sink interface {
	Emit(ctx context.Context, unit Unit) error
}

// WriterSink streams units to a single writer, each preceded by a
// header comment naming its path. Content is written exactly as
// rendered.
type WriterSink struct {
	w io.Writer
}

// Ensure the implementation satisfies the interface.
var _ Sink = (*WriterSink)(nil)

// NewWriterSink returns a Sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Emit writes the unit to the underlying writer.
func (s *WriterSink) Emit(ctx context.Context, unit Unit) error {
	if s == nil || s.w == nil {
		return errors.New("emit: writer sink is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if unit.Path != "" {
		if _, err := fmt.Fprintf(s.w, "// ---- %s ----\n", unit.Path); err != nil {
			return err
		}
	}
	if _, err := s.w.Write(unit.Content); err != nil {
		return err
	}
	if !bytes.HasSuffix(unit.Content, []byte("\n")) {
		if _, err := io.WriteString(s.w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
