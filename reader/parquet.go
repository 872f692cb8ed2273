package reader

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/pqline/internal/errors"
	"github.com/vegasq/pqline/schema"
)

// Reader opens a parquet file and exposes it as a typed schema plus a
// record cursor.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file     *os.File
	pqFile   *parquet.File
	schema   schema.Schema
	decoders []valueDecoder
}

// NewReader creates a new parquet reader for the specified file path.
//
// The file is opened, validated as a parquet file and its leaf columns are
// mapped onto schema types. Returns an error if the file doesn't exist, is
// not a valid parquet file, or has a column pqline cannot render.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "failed to stat file")
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "failed to open parquet file")
	}

	s, decoders, err := buildSchema(pqFile.Schema())
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(err, "%s", path)
	}

	return &Reader{
		file:     file,
		pqFile:   pqFile,
		schema:   s,
		decoders: decoders,
	}, nil
}

// Schema returns the typed input schema.
func (r *Reader) Schema() schema.Schema {
	return r.schema
}

// ParquetSchema returns the raw parquet file schema.
func (r *Reader) ParquetSchema() *parquet.Schema {
	return r.pqFile.Schema()
}

// NumRows returns the row count recorded in the file footer.
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// Cursor returns a new single-pass cursor over all rows of the file. The
// caller must Close it.
func (r *Reader) Cursor() *Cursor {
	return newCursor(parquet.NewReader(r.pqFile), r.decoders)
}

// Close closes the parquet reader and releases associated resources.
//
// It is safe to call Close multiple times.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// maxFiles caps glob expansion to prevent resource exhaustion.
const maxFiles = 1000

// ExpandPattern resolves a file argument into the list of files to read.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// A pattern without wildcards is returned unchanged, without checking that
// the file exists. Matches are returned in lexical order.
func ExpandPattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[]") {
		return []string{pattern}, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "invalid glob pattern")
	}
	if len(matches) == 0 {
		return nil, errors.Newf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, errors.Newf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}
	return matches, nil
}

// batchSize is the number of rows decoded per ReadRows call.
const batchSize = 128

// Cursor iterates over the rows of a parquet file in order. The Record it
// returns is only valid until the next call to Next.
type Cursor struct {
	rows     *parquet.Reader
	decoders []valueDecoder
	buf      []parquet.Row
	n, pos   int
	current  schema.Row
	err      error
	done     bool
}

var _ schema.Cursor = (*Cursor)(nil)

func newCursor(rows *parquet.Reader, decoders []valueDecoder) *Cursor {
	return &Cursor{
		rows:     rows,
		decoders: decoders,
		buf:      make([]parquet.Row, batchSize),
		current:  make(schema.Row, len(decoders)),
	}
}

// Next decodes the next row. It returns false at the end of the file or on
// the first read error; check Err afterwards.
func (c *Cursor) Next() bool {
	for c.pos >= c.n {
		if c.done {
			return false
		}
		c.fill()
	}

	for i := range c.current {
		c.current[i] = nil
	}
	for _, v := range c.buf[c.pos] {
		col := v.Column()
		if col < 0 || col >= len(c.decoders) || v.IsNull() {
			continue
		}
		c.current[col] = c.decoders[col](v)
	}
	c.pos++
	return true
}

func (c *Cursor) fill() {
	n, err := c.rows.ReadRows(c.buf)
	c.n, c.pos = n, 0
	if err != nil {
		c.done = true
		if !errors.Is(err, io.EOF) {
			c.err = errors.Wrap(err, "failed to read rows")
		}
		return
	}
	if n == 0 {
		c.done = true
	}
}

// Record returns the current row.
func (c *Cursor) Record() schema.Record {
	return c.current
}

// Err returns the first read error, if any.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the row reader.
func (c *Cursor) Close() error {
	return c.rows.Close()
}
