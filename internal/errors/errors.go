// Package errors provides error handling for pqline.
//
// It re-exports github.com/cockroachdb/errors so that every package wraps,
// marks and inspects errors the same way:
//
//	if err := sink.Flush(); err != nil {
//	    return errors.Wrap(err, "flush output")
//	}
//
//	return errors.Mark(errors.Newf("column %q not found", name), errors.ErrConfig)
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	WithStack = crdb.WithStack
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetailf = crdb.WithDetailf
	GetAllHints = crdb.GetAllHints
)

// Error inspection and composition
var (
	Is            = crdb.Is
	As            = crdb.As
	Mark          = crdb.Mark
	CombineErrors = crdb.CombineErrors
)

// Assertions
var (
	AssertionFailedf    = crdb.AssertionFailedf
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Sentinel error classes. Mark concrete errors with them via Mark and test
// with Is.
var (
	// ErrConfig indicates an invalid or unresolvable configuration, detected
	// before any record is processed.
	ErrConfig = New("configuration error")

	// ErrUnsupportedSchema indicates an input column shape outside the
	// supported value types.
	ErrUnsupportedSchema = New("unsupported schema")
)

// Configf creates a new configuration error.
func Configf(format string, args ...interface{}) error {
	return crdb.Mark(crdb.NewWithDepthf(1, format, args...), ErrConfig)
}

// IsConfig reports whether err is, or wraps, a configuration error.
func IsConfig(err error) bool {
	return crdb.Is(err, ErrConfig)
}
