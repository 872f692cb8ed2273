package output

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vegasq/pqline/internal/errors"
	"github.com/vegasq/pqline/internal/logger"
	"github.com/vegasq/pqline/internal/metrics"
	"github.com/vegasq/pqline/schema"
)

// Sink is the line-oriented byte destination a formatter writes into.
// Encoding, newline style, compression and file rotation belong to the
// sink.
type Sink interface {
	// BeginUnit starts a new output unit (e.g. opens the next file).
	BeginUnit() error
	// WriteText appends text to the current line.
	WriteText(s string) error
	// NewLine terminates the current line.
	NewLine() error
	// Flush pushes buffered output to the destination.
	Flush() error
	// Close releases the sink. It must be safe to call more than once.
	Close() error
}

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes every record of cur to the output sink.
	Format(ctx context.Context, in schema.Schema, cur schema.Cursor) error

	// SetOutput changes the output sink
	SetOutput(s Sink)
}

// LineFormatter writes a single column of each record as one line of text.
type LineFormatter struct {
	opts    Options
	sink    Sink
	log     *zap.SugaredLogger
	metrics *metrics.Recorder
	stats   Stats
}

var _ Formatter = (*LineFormatter)(nil)

// NewLineFormatter creates a line formatter writing into s.
func NewLineFormatter(opts Options, s Sink) *LineFormatter {
	return &LineFormatter{
		opts: opts,
		sink: s,
		log:  logger.ComponentLogger("output"),
	}
}

// SetOutput sets the output sink
func (f *LineFormatter) SetOutput(s Sink) {
	f.sink = s
}

// WithRunID tags log entries of this formatter with id.
func (f *LineFormatter) WithRunID(id string) *LineFormatter {
	f.log = f.log.With(logger.FieldRunID, id)
	return f
}

// WithFile tags log entries with the input file path.
func (f *LineFormatter) WithFile(path string) *LineFormatter {
	f.log = f.log.With(logger.FieldFile, path)
	return f
}

// WithMetrics records run statistics into m.
func (f *LineFormatter) WithMetrics(m *metrics.Recorder) *LineFormatter {
	f.metrics = m
	return f
}

// Stats returns the statistics of the last Format call.
func (f *LineFormatter) Stats() Stats {
	return f.stats
}

// Format resolves the configuration against in and emits one line per
// record. The sink is closed when Format returns, including when the
// configuration does not resolve.
func (f *LineFormatter) Format(ctx context.Context, in schema.Schema, cur schema.Cursor) error {
	if f.sink == nil {
		return errors.AssertionFailedf("line formatter has no output sink")
	}
	start := time.Now()
	f.stats = Stats{}

	task, err := Resolve(f.opts, in)
	if err != nil {
		if cerr := f.sink.Close(); cerr != nil {
			err = errors.CombineErrors(err, errors.Wrap(cerr, "close output"))
		}
		f.metrics.ObserveRun(f.opts.ColumnName, 0, 0, 0, time.Since(start), err)
		return err
	}

	col := task.Column()
	f.log.Debugw("column resolved",
		logger.FieldColumn, col.Name,
		logger.FieldType, col.Type.String(),
		logger.FieldTimezone, task.timestamps.Location().String(),
		logger.FieldTimestampFormat, task.timestamps.Pattern(),
	)

	st, err := task.Run(ctx, cur, f.sink)
	f.stats = st
	elapsed := time.Since(start)
	f.metrics.ObserveRun(col.Name, st.Records, st.Nulls, st.Bytes, elapsed, err)
	if err != nil {
		f.log.Errorw("format failed",
			logger.FieldColumn, col.Name,
			logger.FieldCount, st.Records,
			logger.FieldError, err,
		)
		return err
	}

	f.log.Infow("format complete",
		logger.FieldColumn, col.Name,
		logger.FieldCount, st.Records,
		logger.FieldDurationMS, elapsed.Milliseconds(),
	)
	return nil
}
