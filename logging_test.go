package pollcoro

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	calls []LogLevel
}

func (r *recordingLogger) Log(level LogLevel, msg string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, level)
}

func (r *recordingLogger) count(level LogLevel) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.calls {
		if l == level {
			n++
		}
	}
	return n
}

func withLogger(t *testing.T, l Logger) {
	t.Cleanup(func() { SetLogger(nil) })
	SetLogger(l)
}

func TestLogging_NoopDefaultDiscardsEverything(t *testing.T) {
	assert.NotPanics(t, func() { logDebug("x", nil); logWarn("y", nil) })
}

func TestLogging_MutexLogsQueueHandoffAtDebug(t *testing.T) {
	rec := &recordingLogger{}
	withLogger(t, rec)

	var m Mutex
	w := NullWaker()

	holder := BlockOn[*MutexGuard](m.Lock())
	op := m.Lock()
	require.True(t, op.Poll(&w).IsPending())
	holder.Unlock()

	assert.GreaterOrEqual(t, rec.count(LevelDebug), 2)
}

func TestLogging_SharedMutexLogsReaderQueuedBehindWriterAtWarn(t *testing.T) {
	rec := &recordingLogger{}
	withLogger(t, rec)

	var m SharedMutex
	w := NullWaker()

	writer := BlockOn[*SharedMutexWriteGuard](m.LockExclusive())

	readerOp := m.LockShared()
	require.True(t, readerOp.Poll(&w).IsPending())

	assert.Equal(t, 1, rec.count(LevelWarn))
	writer.Unlock()
}

func TestLogging_TaskCancelLogsAtWarn(t *testing.T) {
	rec := &recordingLogger{}
	withLogger(t, rec)

	gate, _ := NewSingleEvent[int]()
	task := NewTask[int](func(y *TaskYield) int {
		Await[int](y, gate)
		return 0
	})
	w := NullWaker()
	_ = task.Poll(&w)
	task.Cancel()

	assert.Equal(t, 1, rec.count(LevelWarn))
}
