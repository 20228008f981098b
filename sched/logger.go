package sched

import (
	"log"
	"os"
)

// Logger is the injected logging seam the engine writes progress and
// error messages through. SPEC_FULL.md's ambient-stack redesign replaces
// the teacher's package-global *log.Logger use (see cmd/sublrun) with an
// interface so the scheduler never reaches for a process-wide logger,
// making it safe to run more than one Engine in the same process with
// independently configured output.
type Logger interface {
	Printf(format string, args ...interface{})
}

// StdLogger is the default Logger, backed by the standard library's log
// package the same way the teacher's CLI tools are.
type StdLogger struct {
	l *log.Logger
}

// NewStdLogger creates a Logger writing to os.Stderr with a microsecond
// timestamp prefix, matching the teacher's cmd/sublrun log configuration.
func NewStdLogger() *StdLogger {
	return &StdLogger{l: log.New(os.Stderr, "ufoengine: ", log.LstdFlags|log.Lmicroseconds)}
}

func (s *StdLogger) Printf(format string, args ...interface{}) { s.l.Printf(format, args...) }

// NopLogger discards every message. Useful in tests that don't want
// scheduler chatter on stderr.
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}
