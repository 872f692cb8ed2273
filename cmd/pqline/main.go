package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/vegasq/pqline/internal/config"
	"github.com/vegasq/pqline/internal/errors"
	"github.com/vegasq/pqline/internal/logger"
	"github.com/vegasq/pqline/output"
	"github.com/vegasq/pqline/sink"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var configFile string

	root := &cobra.Command{
		Use:   "pqline [flags] <file.parquet|glob>...",
		Short: "Write one column of Parquet files as lines of text",
		Long: `pqline writes a single column of every row of one or more Parquet files
as lines of text, to stdout or to a sequence of output files.

Values are rendered by column type: booleans as true/false, integers in
base 10, floats in their shortest round-trip form, timestamps with a
strftime pattern in a chosen timezone, JSON compacted. Nulls become the
--null-string placeholder.

Settings can also come from a YAML file (--config) or from PQLINE_*
environment variables, e.g. PQLINE_FORMATTER_NULL_STRING.

Examples:
  pqline data.parquet
  pqline --column email --null-string '\N' users.parquet
  pqline --column created_at --timezone Asia/Tokyo --timestamp-format '%Y-%m-%dT%H:%M:%S.%3N%z' events.parquet
  pqline --output out/part --file-ext .txt.gz --compression gzip 'data/*.parquet'
  pqline schema data.parquet`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				return nil
			}
			return config.ReadFile(v, configFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithViper(v)
			if err != nil {
				return err
			}
			if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			defer logger.Cleanup()

			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, files, cmd.OutOrStdout())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "YAML configuration file")
	pf.Bool("log-json", false, "emit logs as JSON")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")

	f := root.Flags()
	f.String("column", "", "column to write (default: first column)")
	f.String("null-string", "", "placeholder written for null values")
	f.String("timezone", "UTC", "timezone for timestamps (UTC, +09:00, Asia/Tokyo)")
	f.String("timestamp-format", output.DefaultTimestampFormat, "strftime pattern for timestamps; %N, %<n>N and %L add sub-seconds")
	f.StringP("output", "o", "", "output path prefix (default: stdout)")
	f.String("sequence-format", sink.DefaultSequenceFormat, "printf format for file numbering (task index, file index)")
	f.String("file-ext", "", "output file extension, e.g. .txt")
	f.String("newline", "LF", "line terminator: LF, CRLF or CR")
	f.String("charset", "UTF-8", "output character set")
	f.String("compression", "none", "none, gzip, zstd, lz4 or brotli")
	f.Int("workers", 4, "files formatted in parallel when writing to files")
	f.String("push-gateway", "", "Prometheus Pushgateway URL for run metrics")

	if err := config.BindFlags(v, f, pf); err != nil {
		panic(err)
	}

	root.AddCommand(newSchemaCmd())
	return root
}
