package sink

import (
	"io"

	"github.com/vegasq/pqline/internal/errors"
)

// WriterSink writes lines to an io.Writer such as os.Stdout. It never
// closes the writer; each BeginUnit starts a fresh encoding chain (a new
// compression stream when compressed).
type WriterSink struct {
	w   io.Writer
	enc resolvedEncoding
	out *encoder
}

// NewWriterSink validates enc and returns a sink writing to w.
func NewWriterSink(w io.Writer, enc Encoding) (*WriterSink, error) {
	r, err := enc.resolve()
	if err != nil {
		return nil, err
	}
	return &WriterSink{w: w, enc: r}, nil
}

// BeginUnit finishes the previous unit, if any, and starts a new one.
func (s *WriterSink) BeginUnit() error {
	if err := s.Close(); err != nil {
		return err
	}
	out, err := newEncoder(s.w, s.enc)
	if err != nil {
		return err
	}
	s.out = out
	return nil
}

// WriteText appends text to the current line.
func (s *WriterSink) WriteText(text string) error {
	if s.out == nil {
		return errors.New("writer sink: no open output unit")
	}
	return s.out.writeText(text)
}

// NewLine terminates the current line.
func (s *WriterSink) NewLine() error {
	if s.out == nil {
		return errors.New("writer sink: no open output unit")
	}
	return s.out.writeNewline()
}

// Flush pushes buffered bytes to the writer.
func (s *WriterSink) Flush() error {
	if s.out == nil {
		return nil
	}
	return s.out.flush()
}

// Close finishes the current unit. The underlying writer stays open.
func (s *WriterSink) Close() error {
	if s.out == nil {
		return nil
	}
	err := s.out.close()
	s.out = nil
	return err
}
