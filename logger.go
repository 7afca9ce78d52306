package docmill

import (
	"fmt"
	"log"
	"os"
)

// LogLevel represents the severity of a log message.
type LogLevel int

// Log levels in increasing severity.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger receives diagnostic messages from the library. Every component
// takes a Logger at construction; when none is supplied, logging is a no-op.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Log writes a message at the given level, formatted via fmt.Sprintf.
	Log(level LogLevel, format string, args ...any)

	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// NoOpLogger discards all messages. It is the default logger.
type NoOpLogger struct{}

var _ Logger = (*NoOpLogger)(nil)

func (n *NoOpLogger) Log(level LogLevel, format string, args ...any) {}
func (n *NoOpLogger) Debug(format string, args ...any)               {}
func (n *NoOpLogger) Info(format string, args ...any)                {}
func (n *NoOpLogger) Warn(format string, args ...any)                {}
func (n *NoOpLogger) Error(format string, args ...any)               {}

// SimpleLogger writes leveled lines with [LEVEL] prefixes. Debug and Info
// go to stdout, Warn and Error to stderr. Messages below MinLevel are
// discarded.
type SimpleLogger struct {
	MinLevel LogLevel

	StdoutLogger *log.Logger
	StderrLogger *log.Logger
}

var _ Logger = (*SimpleLogger)(nil)

// NewSimpleLogger creates a SimpleLogger with the given minimum level,
// using standard log formatting with timestamps.
func NewSimpleLogger(minLevel LogLevel) *SimpleLogger {
	return &SimpleLogger{
		MinLevel:     minLevel,
		StdoutLogger: log.New(os.Stdout, "", log.LstdFlags),
		StderrLogger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Log implements the Logger interface.
func (s *SimpleLogger) Log(level LogLevel, format string, args ...any) {
	if level < s.MinLevel {
		return
	}

	msg := fmt.Sprintf(format, args...)

	switch level {
	case LogLevelDebug, LogLevelInfo:
		s.StdoutLogger.Printf("[%s] %s", level, msg)
	case LogLevelWarn, LogLevelError:
		s.StderrLogger.Printf("[%s] %s", level, msg)
	}
}

func (s *SimpleLogger) Debug(format string, args ...any) { s.Log(LogLevelDebug, format, args...) }
func (s *SimpleLogger) Info(format string, args ...any)  { s.Log(LogLevelInfo, format, args...) }
func (s *SimpleLogger) Warn(format string, args ...any)  { s.Log(LogLevelWarn, format, args...) }
func (s *SimpleLogger) Error(format string, args ...any) { s.Log(LogLevelError, format, args...) }
