package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/tripcheck/internal/logger"
)

// HintError decorates an error with a suggestion printed below the message.
type HintError struct {
	Err  error
	Hint string
}

func (e *HintError) Error() string { return e.Err.Error() }

func (e *HintError) Unwrap() error { return e.Err }

// WithHint attaches hint to err. A nil err stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &HintError{Err: err, Hint: hint}
}

// Format formats an error message with a consistent "Error: " prefix, followed
// by a "Hint: " line when the error chain carries one.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var hinted *HintError
	if stderrors.As(err, &hinted) && hinted.Hint != "" {
		return fmt.Sprintf("Error: %v\nHint: %s", err, hinted.Hint)
	}
	return fmt.Sprintf("Error: %v", err)
}

func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err and exits with status 1. It does nothing for a nil error.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
