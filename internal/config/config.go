// Package config loads pqline settings from defaults, an optional YAML
// file, PQLINE_* environment variables and command-line flags, in that
// order of precedence.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vegasq/pqline/internal/errors"
	"github.com/vegasq/pqline/output"
	"github.com/vegasq/pqline/sink"
)

// EnvPrefix is prepended to every environment variable, with "." in keys
// replaced by "_" (PQLINE_FORMATTER_NULL_STRING).
const EnvPrefix = "PQLINE"

// Config is the complete pqline configuration.
type Config struct {
	Formatter FormatterConfig `mapstructure:"formatter"`
	Output    OutputConfig    `mapstructure:"output"`
	Runtime   RuntimeConfig   `mapstructure:"runtime"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// FormatterConfig controls how the selected column is rendered.
type FormatterConfig struct {
	ColumnName      string `mapstructure:"column_name"`
	NullString      string `mapstructure:"null_string"`
	Timezone        string `mapstructure:"timezone"`
	TimestampFormat string `mapstructure:"timestamp_format"`
}

// OutputConfig controls where lines go and how they are encoded. An empty
// PathPrefix writes to stdout.
type OutputConfig struct {
	PathPrefix     string `mapstructure:"path_prefix"`
	SequenceFormat string `mapstructure:"sequence_format"`
	FileExt        string `mapstructure:"file_ext"`
	Newline        string `mapstructure:"newline"`
	Charset        string `mapstructure:"charset"`
	Compression    string `mapstructure:"compression"`
}

// RuntimeConfig bounds parallel file runs.
type RuntimeConfig struct {
	Workers int `mapstructure:"workers"`
}

// MetricsConfig enables pushing run metrics to a Prometheus Pushgateway.
type MetricsConfig struct {
	PushGateway string `mapstructure:"push_gateway"`
	Job         string `mapstructure:"job"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("formatter.column_name", "")
	v.SetDefault("formatter.null_string", "")
	v.SetDefault("formatter.timezone", "UTC")
	v.SetDefault("formatter.timestamp_format", output.DefaultTimestampFormat)

	v.SetDefault("output.path_prefix", "")
	v.SetDefault("output.sequence_format", sink.DefaultSequenceFormat)
	v.SetDefault("output.file_ext", "")
	v.SetDefault("output.newline", "LF")
	v.SetDefault("output.charset", "UTF-8")
	v.SetDefault("output.compression", "none")

	v.SetDefault("runtime.workers", 4)

	v.SetDefault("metrics.push_gateway", "")
	v.SetDefault("metrics.job", "pqline")

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// NewViper returns a Viper instance with defaults set and PQLINE_*
// environment variables bound.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// FlagNames maps configuration keys to the command-line flags that set
// them. metrics.job has no flag.
var FlagNames = map[string]string{
	"formatter.column_name":      "column",
	"formatter.null_string":      "null-string",
	"formatter.timezone":         "timezone",
	"formatter.timestamp_format": "timestamp-format",
	"output.path_prefix":         "output",
	"output.sequence_format":     "sequence-format",
	"output.file_ext":            "file-ext",
	"output.newline":             "newline",
	"output.charset":             "charset",
	"output.compression":         "compression",
	"runtime.workers":            "workers",
	"metrics.push_gateway":       "push-gateway",
	"log.json":                   "log-json",
	"log.level":                  "log-level",
}

// BindFlags binds every key in FlagNames to the flag of that name in the
// first flag set that defines it. A flag only overrides file and
// environment values when it is set explicitly.
func BindFlags(v *viper.Viper, sets ...*pflag.FlagSet) error {
	for key, name := range FlagNames {
		var flag *pflag.Flag
		for _, fs := range sets {
			if flag = fs.Lookup(name); flag != nil {
				break
			}
		}
		if flag == nil {
			return errors.AssertionFailedf("no flag %q for config key %s", name, key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}
	return nil
}

// ReadFile merges a YAML configuration file into v.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that can be verified without an input schema.
// Column name, timezone and timestamp pattern are checked when a run
// resolves its formatter.
func (c *Config) Validate() error {
	if err := c.Encoding().Validate(); err != nil {
		return err
	}
	if c.Runtime.Workers < 1 {
		return errors.Configf("runtime.workers must be at least 1, got %d", c.Runtime.Workers)
	}
	if c.Output.PathPrefix != "" && c.Output.SequenceFormat == "" {
		return errors.Configf("output.sequence_format must not be empty when writing files")
	}
	if c.Metrics.PushGateway != "" && c.Metrics.Job == "" {
		return errors.Configf("metrics.job must be set when metrics.push_gateway is")
	}
	return nil
}

// FormatterOptions returns the formatter settings.
func (c *Config) FormatterOptions() output.Options {
	return output.Options{
		ColumnName:      c.Formatter.ColumnName,
		NullString:      c.Formatter.NullString,
		Timezone:        c.Formatter.Timezone,
		TimestampFormat: c.Formatter.TimestampFormat,
	}
}

// Encoding returns the sink byte encoding.
func (c *Config) Encoding() sink.Encoding {
	return sink.Encoding{
		Newline:     c.Output.Newline,
		Charset:     c.Output.Charset,
		Compression: c.Output.Compression,
	}
}

// ToStdout reports whether lines go to standard output.
func (c *Config) ToStdout() bool {
	return c.Output.PathPrefix == ""
}

// FileOptions returns the file sink settings for the run with the given
// task index.
func (c *Config) FileOptions(taskIndex int) sink.FileOptions {
	return sink.FileOptions{
		PathPrefix:     c.Output.PathPrefix,
		SequenceFormat: c.Output.SequenceFormat,
		FileExt:        c.Output.FileExt,
		TaskIndex:      taskIndex,
		Encoding:       c.Encoding(),
	}
}
