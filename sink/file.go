package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vegasq/pqline/internal/errors"
)

// DefaultSequenceFormat numbers files by task index and file index.
const DefaultSequenceFormat = ".%03d.%02d"

// FileOptions configures a FileSink.
type FileOptions struct {
	// PathPrefix is prepended to every file name, e.g. "out/users".
	PathPrefix string
	// SequenceFormat is a printf format receiving (task index, file index).
	SequenceFormat string
	// FileExt is appended to every file name, e.g. ".txt.gz".
	FileExt string
	// TaskIndex distinguishes parallel runs writing with the same prefix.
	TaskIndex int
	Encoding  Encoding
}

// FileSink writes lines into local files. Every BeginUnit closes the
// current file and opens the next one in the sequence.
type FileSink struct {
	opts      FileOptions
	enc       resolvedEncoding
	fileIndex int
	file      *os.File
	out       *encoder
	paths     []string
}

// NewFileSink validates opts and returns a sink with no open file.
func NewFileSink(opts FileOptions) (*FileSink, error) {
	if opts.PathPrefix == "" {
		return nil, errors.Configf("file output requires a path prefix")
	}
	if opts.SequenceFormat == "" {
		opts.SequenceFormat = DefaultSequenceFormat
	}
	if sample := fmt.Sprintf(opts.SequenceFormat, 0, 0); strings.Contains(sample, "%!") {
		return nil, errors.Configf("invalid sequence format %q: must take two integers", opts.SequenceFormat)
	}
	enc, err := opts.Encoding.resolve()
	if err != nil {
		return nil, err
	}
	return &FileSink{opts: opts, enc: enc}, nil
}

// BeginUnit closes the current file, if any, and creates the next one.
func (s *FileSink) BeginUnit() error {
	if err := s.closeCurrent(); err != nil {
		return err
	}

	path := s.opts.PathPrefix + fmt.Sprintf(s.opts.SequenceFormat, s.opts.TaskIndex, s.fileIndex) + s.opts.FileExt
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create directory %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	out, err := newEncoder(f, s.enc)
	if err != nil {
		_ = f.Close()
		return err
	}

	s.file = f
	s.out = out
	s.fileIndex++
	s.paths = append(s.paths, path)
	return nil
}

// WriteText appends text to the current line.
func (s *FileSink) WriteText(text string) error {
	if s.out == nil {
		return errors.New("file sink: no open output unit")
	}
	if err := s.out.writeText(text); err != nil {
		return errors.Wrapf(err, "write %s", s.file.Name())
	}
	return nil
}

// NewLine terminates the current line.
func (s *FileSink) NewLine() error {
	if s.out == nil {
		return errors.New("file sink: no open output unit")
	}
	if err := s.out.writeNewline(); err != nil {
		return errors.Wrapf(err, "write %s", s.file.Name())
	}
	return nil
}

// Flush pushes buffered bytes into the current file.
func (s *FileSink) Flush() error {
	if s.out == nil {
		return nil
	}
	if err := s.out.flush(); err != nil {
		return errors.Wrapf(err, "flush %s", s.file.Name())
	}
	return nil
}

// Close finishes and closes the current file. Calling it again is a no-op.
func (s *FileSink) Close() error {
	return s.closeCurrent()
}

// Paths lists the files created so far, in order.
func (s *FileSink) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

func (s *FileSink) closeCurrent() error {
	if s.file == nil {
		return nil
	}
	name := s.file.Name()
	err := s.out.close()
	err = errors.CombineErrors(err, s.file.Close())
	s.file = nil
	s.out = nil
	if err != nil {
		return errors.Wrapf(err, "close %s", name)
	}
	return nil
}
