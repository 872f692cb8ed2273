package main

import (
	"context"
	"io"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vegasq/pqline/internal/config"
	"github.com/vegasq/pqline/internal/errors"
	"github.com/vegasq/pqline/internal/logger"
	"github.com/vegasq/pqline/internal/metrics"
	"github.com/vegasq/pqline/output"
	"github.com/vegasq/pqline/reader"
	"github.com/vegasq/pqline/sink"
)

// expandArgs resolves every file argument, in order, into file paths.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := reader.ExpandPattern(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// run formats every file as its own run. Runs writing to files execute in
// parallel; runs writing to stdout execute one after another so their
// lines do not interleave.
func run(ctx context.Context, cfg *config.Config, files []string, stdout io.Writer) error {
	rec, err := metrics.NewRecorder()
	if err != nil {
		return err
	}
	log := logger.ComponentLogger("cmd")

	if cfg.ToStdout() {
		err = formatToWriter(ctx, cfg, rec, files, stdout)
	} else {
		err = formatToFiles(ctx, cfg, rec, files)
	}

	if cfg.Metrics.PushGateway != "" {
		if perr := rec.Push(cfg.Metrics.PushGateway, cfg.Metrics.Job); perr != nil {
			log.Warnw("metrics push failed", logger.FieldError, perr)
		}
	}
	return err
}

func formatToWriter(ctx context.Context, cfg *config.Config, rec *metrics.Recorder, files []string, w io.Writer) error {
	for _, path := range files {
		err := formatFile(ctx, cfg, rec, path, func() (output.Sink, error) {
			return sink.NewWriterSink(w, cfg.Encoding())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func formatToFiles(ctx context.Context, cfg *config.Config, rec *metrics.Recorder, files []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Runtime.Workers)

	log := logger.ComponentLogger("cmd")
	for i, path := range files {
		g.Go(func() error {
			var fs *sink.FileSink
			err := formatFile(gctx, cfg, rec, path, func() (output.Sink, error) {
				var err error
				fs, err = sink.NewFileSink(cfg.FileOptions(i))
				return fs, err
			})
			if fs != nil {
				for _, p := range fs.Paths() {
					log.Infow("output written", logger.FieldFile, path, logger.FieldPath, p)
				}
			}
			return err
		})
	}
	return g.Wait()
}

// formatFile runs the line formatter over one file. The sink is opened
// only after the file's schema has been read.
func formatFile(ctx context.Context, cfg *config.Config, rec *metrics.Recorder, path string, open func() (output.Sink, error)) error {
	r, err := reader.NewReader(path)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	out, err := open()
	if err != nil {
		return err
	}

	cur := r.Cursor()
	defer func() { _ = cur.Close() }()

	f := output.NewLineFormatter(cfg.FormatterOptions(), out).
		WithRunID(uuid.NewString()).
		WithFile(path).
		WithMetrics(rec)
	if err := f.Format(ctx, r.Schema(), cur); err != nil {
		return errors.Wrapf(err, "%s", path)
	}
	return nil
}
