// Package logger provides the process-wide structured logger for pqline.
//
// The command initializes it once; packages obtain named children with
// ComponentLogger. Before Initialize is called every logger is a no-op, so
// library code and tests never need to set it up.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
const (
	FieldRunID           = "run_id"
	FieldFile            = "file"
	FieldColumn          = "column"
	FieldType            = "type"
	FieldTimezone        = "timezone"
	FieldTimestampFormat = "timestamp_format"
	FieldCount           = "count"
	FieldDurationMS      = "duration_ms"
	FieldError           = "error"
	FieldPath            = "path"
)

// Logger is the global sugared logger.
var Logger = zap.NewNop().Sugar()

// Initialize configures the global logger. Logs go to stderr so that stdout
// stays reserved for formatted output.
func Initialize(jsonOutput bool, level string) error {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if jsonOutput {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)
	Logger = zap.New(core).Sugar()
	return nil
}

// ComponentLogger returns a named logger for a specific component.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
