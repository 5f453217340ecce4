package pollcoro

import (
	"sync"
)

// LogLevel is the severity of a [Logger] call, matching the levels the
// eventloop package's structured logger exposes (Debug/Info/Warn/Error).
type LogLevel int32

const (
	// LevelDebug is used for waker lifecycle diagnostics: spurious
	// wakes, clone counts, queue hand-off. Never logged on the hot poll
	// path unless a caller explicitly opted into a debug [Logger].
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the structured logging seam pollcoro's driver and
// synchronization primitives call into. It is intentionally narrow so
// that host applications can adapt zerolog, logrus, slog, or
// github.com/joeycumines/logiface (see the logifaceadapter subpackage)
// onto it without pollcoro importing any of them directly.
type Logger interface {
	Log(level LogLevel, msg string, fields map[string]any)
}

// noopLogger discards everything; it is the package default.
type noopLogger struct{}

func (noopLogger) Log(LogLevel, string, map[string]any) {}

var globalLogger struct {
	sync.RWMutex
	logger Logger
}

// SetLogger installs the package-level [Logger] used by [BlockOn],
// [Mutex], and [SharedMutex] for lifecycle diagnostics. Passing nil
// restores the no-op default.
func SetLogger(l Logger) {
	globalLogger.Lock()
	defer globalLogger.Unlock()
	globalLogger.logger = l
}

func getLogger() Logger {
	globalLogger.RLock()
	defer globalLogger.RUnlock()
	if globalLogger.logger != nil {
		return globalLogger.logger
	}
	return noopLogger{}
}

func logDebug(msg string, fields map[string]any) { getLogger().Log(LevelDebug, msg, fields) }
func logWarn(msg string, fields map[string]any)  { getLogger().Log(LevelWarn, msg, fields) }
