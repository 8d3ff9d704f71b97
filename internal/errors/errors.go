// Package errors formats command failures for the terminal.
package errors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/liftlog/internal/logger"
)

// hinted carries a suggested next step alongside the error.
type hinted struct {
	err  error
	hint string
}

func (h *hinted) Error() string { return h.err.Error() }
func (h *hinted) Unwrap() error { return h.err }

// WithHint attaches a follow-up suggestion that Format prints on its own
// line. The result still matches err with errors.Is.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hinted{err: err, hint: hint}
}

// Hint returns the outermost hint in err's chain, if any.
func Hint(err error) string {
	var h *hinted
	if errors.As(err, &h) {
		return h.hint
	}
	return ""
}

// Format renders err as "Error: ..." followed by its hint.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Fatal logs err, prints it to stderr and exits with status 1. A nil err
// is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(stderr, Format(err))
	exit(1)
}
