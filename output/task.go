package output

import (
	"context"

	"github.com/vegasq/pqline/internal/errors"
	"github.com/vegasq/pqline/schema"
)

// Options is the fixed per-run configuration of the line formatter.
type Options struct {
	// ColumnName selects the output column by exact name. Empty selects the
	// first column.
	ColumnName string
	// NullString is written verbatim for null values.
	NullString string
	// Timezone is the zone timestamps are rendered in (UTC, +09:00,
	// Asia/Tokyo, ...).
	Timezone string
	// TimestampFormat is a strftime pattern with %N/%<n>N/%L sub-second
	// directives.
	TimestampFormat string
}

// DefaultOptions returns the defaults: first column, empty null string, UTC,
// DefaultTimestampFormat.
func DefaultOptions() Options {
	return Options{
		Timezone:        "UTC",
		TimestampFormat: DefaultTimestampFormat,
	}
}

// Task is a formatter configuration resolved against one input schema. It
// is immutable and may be shared by concurrent runs over the same schema.
type Task struct {
	column     schema.Column
	nullString string
	timestamps *TimestampFormatter
	stringify  stringifyFunc
}

// Stats summarizes one run.
type Stats struct {
	Records int64
	Nulls   int64
	Bytes   int64
}

// Resolve validates opts and binds them to the input schema. All
// configuration errors surface here, before any record is read.
func Resolve(opts Options, in schema.Schema) (*Task, error) {
	col, err := selectColumn(opts.ColumnName, in)
	if err != nil {
		return nil, err
	}

	loc, err := ParseTimezone(opts.Timezone)
	if err != nil {
		return nil, err
	}

	pattern := opts.TimestampFormat
	if pattern == "" {
		pattern = DefaultTimestampFormat
	}
	ts, err := NewTimestampFormatter(pattern, loc)
	if err != nil {
		return nil, err
	}

	fn, err := compileStringifier(col.Type, ts)
	if err != nil {
		return nil, err
	}

	return &Task{
		column:     col,
		nullString: opts.NullString,
		timestamps: ts,
		stringify:  fn,
	}, nil
}

// selectColumn resolves the column selector: exact name match when a name
// is given, otherwise position 0.
func selectColumn(name string, in schema.Schema) (schema.Column, error) {
	if in.Len() == 0 {
		return schema.Column{}, errors.Configf("input schema has no columns")
	}
	if name == "" {
		return in.Column(0), nil
	}
	col, ok := in.Lookup(name)
	if !ok {
		return schema.Column{}, errors.WithHintf(
			errors.Configf("column %q not found in input schema", name),
			"available columns: %v", in.Names(),
		)
	}
	return col, nil
}

// Column returns the selected column. Its Index addresses the original
// input schema.
func (t *Task) Column() schema.Column {
	return t.column
}

// Stringify renders the selected column of r.
func (t *Task) Stringify(r schema.Record) (string, error) {
	if r.IsNull(t.column.Index) {
		return t.nullString, nil
	}
	return t.stringify(r, t.column.Index)
}

// Run writes one line per record of cur to out, in order. It begins a new
// output unit first and flushes at the end of input. out is closed on every
// path; a close error is combined with any earlier error.
func (t *Task) Run(ctx context.Context, cur schema.Cursor, out Sink) (st Stats, err error) {
	defer func() {
		if cerr := out.Close(); cerr != nil {
			err = errors.CombineErrors(err, errors.Wrap(cerr, "close output"))
		}
	}()

	if err := out.BeginUnit(); err != nil {
		return st, errors.Wrap(err, "begin output unit")
	}

	for cur.Next() {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		rec := cur.Record()
		line, err := t.Stringify(rec)
		if err != nil {
			return st, errors.Wrapf(err, "record %d, column %q", st.Records, t.column.Name)
		}
		if err := out.WriteText(line); err != nil {
			return st, errors.Wrapf(err, "write record %d", st.Records)
		}
		if err := out.NewLine(); err != nil {
			return st, errors.Wrapf(err, "write record %d", st.Records)
		}

		st.Records++
		st.Bytes += int64(len(line))
		if rec.IsNull(t.column.Index) {
			st.Nulls++
		}
	}
	if err := cur.Err(); err != nil {
		return st, errors.Wrap(err, "read input")
	}

	if err := out.Flush(); err != nil {
		return st, errors.Wrap(err, "flush output")
	}
	return st, nil
}
