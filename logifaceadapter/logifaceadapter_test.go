package logifaceadapter

import (
	"testing"

	"github.com/TroyKomodo/pollcoro"
	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEvent struct {
	logiface.UnimplementedEvent
	level  logiface.Level
	fields map[string]any
	msg    string
}

func (e *recordingEvent) Level() logiface.Level { return e.level }

func (e *recordingEvent) AddField(key string, val any) {
	if e.fields == nil {
		e.fields = map[string]any{}
	}
	e.fields[key] = val
}

func (e *recordingEvent) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

func TestLogger_DispatchesLevelsAndFields(t *testing.T) {
	var captured *recordingEvent
	l := logiface.New[*recordingEvent](
		logiface.WithEventFactory[*recordingEvent](logiface.EventFactoryFunc[*recordingEvent](func(level logiface.Level) *recordingEvent {
			return &recordingEvent{level: level}
		})),
		logiface.WithWriter[*recordingEvent](logiface.WriterFunc[*recordingEvent](func(e *recordingEvent) error {
			captured = e
			return nil
		})),
	)

	adapter := New[*recordingEvent](l)

	adapter.Log(pollcoro.LevelWarn, "something happened", map[string]any{"count": 3})

	require.NotNil(t, captured)
	assert.Equal(t, logiface.LevelWarning, captured.level)
	assert.Equal(t, "something happened", captured.msg)
	assert.Equal(t, 3, captured.fields["count"])
}

func TestLogger_DefaultsToInfoForUnknownLevel(t *testing.T) {
	var captured *recordingEvent
	l := logiface.New[*recordingEvent](
		logiface.WithEventFactory[*recordingEvent](logiface.EventFactoryFunc[*recordingEvent](func(level logiface.Level) *recordingEvent {
			return &recordingEvent{level: level}
		})),
		logiface.WithWriter[*recordingEvent](logiface.WriterFunc[*recordingEvent](func(e *recordingEvent) error {
			captured = e
			return nil
		})),
	)

	adapter := New[*recordingEvent](l)
	adapter.Log(pollcoro.LogLevel(99), "fallback", nil)

	require.NotNil(t, captured)
	assert.Equal(t, logiface.LevelInformational, captured.level)
}
