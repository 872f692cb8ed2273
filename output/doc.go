// Package output renders one column of each input record as a line of text.
//
// A run has three steps. Resolve binds the configuration to the input
// schema: it selects the column (by exact name, or the first column when no
// name is configured), parses the timezone, compiles the timestamp pattern
// and picks the rendering function for the column type. Any problem here is
// a configuration error and no record is read. Task.Run then reads records
// in order and writes one line per record to a Sink. Finally the sink is
// flushed and closed; Close runs on every path.
//
// # Basic Usage
//
//	out, err := sink.NewWriterSink(os.Stdout, sink.DefaultEncoding())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f := output.NewLineFormatter(output.Options{
//	    ColumnName:      "email",
//	    NullString:      `\N`,
//	    Timezone:        "Asia/Tokyo",
//	    TimestampFormat: output.DefaultTimestampFormat,
//	}, out)
//
//	if err := f.Format(ctx, r.Schema(), r.Cursor()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Value Rendering
//
//   - null: the configured null string, verbatim
//   - boolean: "true" or "false"
//   - integer: base-10, sign preserved
//   - float: shortest representation that round-trips (strconv 'g', -1)
//   - string: verbatim, no quoting or escaping
//   - timestamp: strftime pattern in the configured zone; %N, %<n>N and %L
//     render sub-second digits
//   - json: compact JSON text
//
// The selected column keeps its index in the input schema; records are
// never projected or copied.
package output
