// Package logifaceadapter adapts a github.com/joeycumines/logiface
// logger onto pollcoro's [pollcoro.Logger] seam, grounded on how the
// logiface-logrus and logiface-slog packages wrap third-party loggers
// behind logiface.Logger[E]: here the direction runs the other way,
// forwarding pollcoro's narrow Log calls into whatever Event type E
// the host application already configured (stumpy, logrus, slog...).
package logifaceadapter

import (
	"github.com/TroyKomodo/pollcoro"
	"github.com/joeycumines/logiface"
)

// Logger forwards pollcoro log calls into an existing
// *logiface.Logger[E]. It implements [pollcoro.Logger].
type Logger[E logiface.Event] struct {
	inner *logiface.Logger[E]
}

// New wraps inner. Pass the result to [pollcoro.SetLogger] or
// pollcoro.WithBlockOnLogger.
func New[E logiface.Event](inner *logiface.Logger[E]) *Logger[E] {
	return &Logger[E]{inner: inner}
}

// Log implements [pollcoro.Logger].
func (l *Logger[E]) Log(level pollcoro.LogLevel, msg string, fields map[string]any) {
	b := l.builder(level)
	for k, v := range fields {
		b = b.Any(k, v)
	}
	b.Log(msg)
}

func (l *Logger[E]) builder(level pollcoro.LogLevel) *logiface.Builder[E] {
	switch level {
	case pollcoro.LevelDebug:
		return l.inner.Debug()
	case pollcoro.LevelWarn:
		return l.inner.Warning()
	case pollcoro.LevelError:
		return l.inner.Err()
	default:
		return l.inner.Info()
	}
}
