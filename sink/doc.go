// Package sink provides line-oriented byte destinations for the output
// formatter.
//
// A sink owns everything below the text level: the newline style, the
// output charset and compression, and where bytes go. FileSink rotates
// through numbered files (prefix + sequence + extension); WriterSink wraps
// an existing writer such as stdout.
//
//	s, err := sink.NewFileSink(sink.FileOptions{
//	    PathPrefix: "out/users",
//	    FileExt:    ".txt.gz",
//	    Encoding:   sink.Encoding{Newline: "CRLF", Charset: "UTF-8", Compression: "gzip"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
// Both sinks satisfy output.Sink.
package sink
