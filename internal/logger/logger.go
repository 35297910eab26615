// Package logger provides the leveled, time-stamped text log used by the
// monitor and the hardware drivers. Lines look like:
//
//	2024-05-01 12:00:00.123 INFO     temp: 21.4 C
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// DebugEnv enables Debug output when set to any non-empty value.
const DebugEnv = "ENVIRO_DEBUG"

const timeLayout = "2006-01-02 15:04:05.000"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// textLogger writes one line per message to w.
type textLogger struct {
	out *log.Logger
	now func() time.Time
}

// New creates a logger writing to w.
func New(w io.Writer) Logger {
	return &textLogger{out: log.New(w, "", 0), now: time.Now}
}

func (l *textLogger) write(level, format string, args ...interface{}) {
	l.out.Printf("%s %-8s %s", l.now().Format(timeLayout), level, fmt.Sprintf(format, args...))
}

func (l *textLogger) Debug(format string, args ...interface{}) {
	if os.Getenv(DebugEnv) != "" {
		l.write("DEBUG", format, args...)
	}
}

func (l *textLogger) Info(format string, args ...interface{}) {
	l.write("INFO", format, args...)
}

func (l *textLogger) Warn(format string, args ...interface{}) {
	l.write("WARNING", format, args...)
}

func (l *textLogger) Error(format string, args ...interface{}) {
	l.write("ERROR", format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "debug", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "info", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "warn", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "error", Message: fmt.Sprintf(format, args...)})
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	return l.Count(level) > 0
}

// Count returns how many messages were logged at the given level.
func (l *BufferLogger) Count(level string) int {
	n := 0
	for _, m := range l.Messages {
		if m.Level == level {
			n++
		}
	}
	return n
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.Messages = l.Messages[:0]
}

var defaultLogger = New(os.Stderr)

// Default returns the package default logger, writing to stderr.
func Default() Logger {
	return defaultLogger
}

// SetDefault replaces the package default logger.
func SetDefault(l Logger) {
	defaultLogger = l
}
