// Package errors defines the error kinds shared across ramadan-companion and
// the helpers the CLI uses to surface them.
//
// Kinds are comparable values: wrap them with fmt.Errorf("%w: ...", kind) or
// Wrap, and match with the standard library's errors.Is.
package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/smokyabdulrahman/ramadan-companion/internal/logger"
)

// Kind identifies a class of failure and its default message.
type Kind struct {
	Code    string
	Message string
}

func (k Kind) Error() string {
	return k.Message
}

var (
	// ParseError is a malformed time or date string. Callers substitute a
	// sentinel or default.
	ParseError = Kind{Code: "PARSE_ERROR", Message: "malformed time or date"}

	// UpstreamUnavailable is a time source or calendar oracle that could not
	// be reached or had nothing published for the requested date.
	UpstreamUnavailable = Kind{Code: "UPSTREAM_UNAVAILABLE", Message: "upstream unavailable"}

	// NotInitialized is an aggregate or log write issued before the
	// Ramadan window exists.
	NotInitialized = Kind{Code: "NOT_INITIALIZED", Message: "ramadan period not initialized"}

	// ValidationMismatch marks two time sources disagreeing beyond
	// tolerance. It is informational and only appears in log output.
	ValidationMismatch = Kind{Code: "VALIDATION_MISMATCH", Message: "time sources disagree"}

	// InvalidInput is a caller-supplied value outside its allowed range.
	InvalidInput = Kind{Code: "INVALID_INPUT", Message: "invalid input"}
)

// Wrap returns an error of the given kind with a formatted detail message.
func Wrap(kind Kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// WrapErr attaches kind to an underlying error, keeping both matchable.
func WrapErr(kind Kind, err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", kind, fmt.Sprintf(format, args...), err)
}

// Format formats an error message with the CLI's "error: " prefix.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("error: %v", err)
}

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Fatal logs err, prints it to stderr and exits with status 1.
func Fatal(err error) {
	if err != nil {
		logger.Error("command failed", "error", err)
		fmt.Fprintln(stderr, Format(err))
		exit(1)
	}
}
