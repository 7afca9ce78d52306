package docmill

import (
	"fmt"
	"sync"
)

// recordingLogger captures log lines for assertions. Safe for concurrent use.
type recordingLogger struct {
	mu    sync.Mutex
	lines []struct {
		level LogLevel
		msg   string
	}
}

var _ Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Log(level LogLevel, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, struct {
		level LogLevel
		msg   string
	}{level, fmt.Sprintf(format, args...)})
}

func (l *recordingLogger) Debug(format string, args ...any) { l.Log(LogLevelDebug, format, args...) }
func (l *recordingLogger) Info(format string, args ...any)  { l.Log(LogLevelInfo, format, args...) }
func (l *recordingLogger) Warn(format string, args ...any)  { l.Log(LogLevelWarn, format, args...) }
func (l *recordingLogger) Error(format string, args ...any) { l.Log(LogLevelError, format, args...) }

// count returns how many lines were logged at the given level.
func (l *recordingLogger) count(level LogLevel) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, line := range l.lines {
		if line.level == level {
			n++
		}
	}
	return n
}
