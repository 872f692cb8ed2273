package schema

import (
	"time"
)

// Record gives typed access to one row. Accessors must only be called for
// non-null values of the matching column type.
type Record interface {
	IsNull(i int) bool
	Boolean(i int) bool
	Long(i int) int64
	Double(i int) float64
	String(i int) string
	Timestamp(i int) time.Time
	JSON(i int) any
}

// Cursor is a finite, ordered, single-pass sequence of records.
//
// The usual loop is:
//
//	for cur.Next() {
//	    rec := cur.Record()
//	    ...
//	}
//	if err := cur.Err(); err != nil {
//	    ...
//	}
type Cursor interface {
	Next() bool
	Record() Record
	Err() error
}

// Row is a decoded in-memory record. Values are bool, int64, float64,
// string, time.Time, a JSON value (json.RawMessage, map, slice, ...) or nil
// for null.
type Row []any

func (r Row) IsNull(i int) bool { return r[i] == nil }
func (r Row) Boolean(i int) bool { return r[i].(bool) }
func (r Row) Long(i int) int64 { return r[i].(int64) }
func (r Row) Double(i int) float64 { return r[i].(float64) }
func (r Row) String(i int) string { return r[i].(string) }
func (r Row) Timestamp(i int) time.Time { return r[i].(time.Time) }
func (r Row) JSON(i int) any { return r[i] }

// SliceCursor iterates over an in-memory slice of records.
type SliceCursor struct {
	rows []Record
	pos  int
}

// NewSliceCursor returns a cursor over rows.
func NewSliceCursor(rows ...Record) *SliceCursor {
	return &SliceCursor{rows: rows, pos: -1}
}

// Next advances to the next record.
func (c *SliceCursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		c.pos = len(c.rows)
		return false
	}
	c.pos++
	return true
}

// Record returns the current record.
func (c *SliceCursor) Record() Record {
	return c.rows[c.pos]
}

// Err always returns nil.
func (c *SliceCursor) Err() error {
	return nil
}
