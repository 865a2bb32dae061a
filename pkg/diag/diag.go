// Package diag carries the diagnostics produced while reading & saving
// transactions, and the append-only log they are written to.
package diag

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultFile is where diagnostics go if nothing else is configured.
const DefaultFile = "errors.txt"

type Level int

const (
	Warning Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single observation about a record. Purely informational,
// nothing reads these back to make decisions.
type Diagnostic struct {
	Level Level
	// Ref is the transaction id the message is about, if known
	Ref     string
	Message string
}

func (d Diagnostic) String() string {
	ref := d.Ref
	if ref == "" {
		ref = "N/A"
	}
	return fmt.Sprintf("%s: transaction %s: %s", d.Level, ref, d.Message)
}

// Warnf builds a warning diagnostic.
func Warnf(ref, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Level: Warning, Ref: ref, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds an error diagnostic.
func Errorf(ref, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Level: Error, Ref: ref, Message: fmt.Sprintf(format, args...)}
}

// Filter returns the diagnostics of the given level.
func Filter(diags []Diagnostic, level Level) []Diagnostic {
	out := []Diagnostic{}
	for _, d := range diags {
		if d.Level == level {
			out = append(out, d)
		}
	}
	return out
}

// New returns a logger writing timestamped lines to w.
func New(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           log.DebugLevel,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard)
}

// Open opens (or creates) the log file at path for appending and marks the
// start of a new session in it. Close the returned file when done.
func Open(path string) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open diagnostics log %s: %w", path, err)
	}
	logger := New(f).With("run", uuid.NewString())
	logger.Info("transaction processing log started")
	return logger, f, nil
}

// Emit writes diagnostics to the logger.
func Emit(logger *log.Logger, diags []Diagnostic) {
	if logger == nil {
		return
	}
	for _, d := range diags {
		switch d.Level {
		case Error:
			logger.Error(d.Message, "transaction", d.Ref)
		default:
			logger.Warn(d.Message, "transaction", d.Ref)
		}
	}
}
