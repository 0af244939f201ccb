// Package logger provides the logging interface used across credsync.
// Backends include console output, a discard logger, a recording logger for
// tests, fan-out to several backends and, on Windows, the Event Log.
//
// Callers must never pass cookie values to a Logger; origins and cookie
// names are the only credential-related data allowed in log lines.
package logger

import (
	"fmt"
	"log"
	"sync"
)

// Logger is implemented by every logging backend.
type Logger interface {
	// Info logs an informational message (e.g. "reconciled primary -> mirror").
	Info(format string, args ...interface{})

	// Warning logs a non-fatal problem (e.g. a single cookie write failed).
	Warning(format string, args ...interface{})

	// Error logs a failure the caller could not recover from.
	Error(format string, args ...interface{})

	// Close releases resources held by the logger. Safe to call more than once.
	Close() error
}

// StandardLogger wraps a stdlib *log.Logger for console or file output.
type StandardLogger struct {
	logger *log.Logger
}

// NewStandardLogger creates a logger that writes through l.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l}
}

// Info logs with an [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs with a [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs with an [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close is a no-op.
func (s *StandardLogger) Close() error {
	return nil
}

// NopLogger discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// PrefixedLogger tags every message with a component name, e.g. "[session] ".
type PrefixedLogger struct {
	next   Logger
	prefix string
}

// WithPrefix returns a logger that prepends "[component] " to every message
// before handing it to next. A nil next yields a NopLogger.
func WithPrefix(next Logger, component string) Logger {
	if next == nil {
		return NewNopLogger()
	}
	return &PrefixedLogger{next: next, prefix: "[" + component + "] "}
}

func (p *PrefixedLogger) Info(format string, args ...interface{}) {
	p.next.Info(p.prefix+format, args...)
}

func (p *PrefixedLogger) Warning(format string, args ...interface{}) {
	p.next.Warning(p.prefix+format, args...)
}

func (p *PrefixedLogger) Error(format string, args ...interface{}) {
	p.next.Error(p.prefix+format, args...)
}

// Close does not close the wrapped logger; its owner does that.
func (p *PrefixedLogger) Close() error {
	return nil
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*PrefixedLogger)(nil)
)

// MockLogger records every call for verification in tests. It is safe for
// concurrent use, since the session engine logs from its writer goroutine.
type MockLogger struct {
	mu           sync.Mutex
	infoCalls    []string
	warningCalls []string
	errorCalls   []string
	closeCalled  bool
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.record(&m.infoCalls, format, args)
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.record(&m.warningCalls, format, args)
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.record(&m.errorCalls, format, args)
}

func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
	return nil
}

func (m *MockLogger) record(dst *[]string, format string, args []interface{}) {
	msg := fmt.Sprintf(format, args...)
	m.mu.Lock()
	defer m.mu.Unlock()
	*dst = append(*dst, msg)
}

// InfoCalls returns a copy of the recorded info messages.
func (m *MockLogger) InfoCalls() []string { return m.snapshot(&m.infoCalls) }

// WarningCalls returns a copy of the recorded warning messages.
func (m *MockLogger) WarningCalls() []string { return m.snapshot(&m.warningCalls) }

// ErrorCalls returns a copy of the recorded error messages.
func (m *MockLogger) ErrorCalls() []string { return m.snapshot(&m.errorCalls) }

// CloseCalled reports whether Close was called.
func (m *MockLogger) CloseCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}

func (m *MockLogger) snapshot(calls *[]string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), *calls...)
}

var _ Logger = (*MockLogger)(nil)
