package pollcoro

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_ReturnsImmediately(t *testing.T) {
	task := NewTask(func(y *TaskYield) int { return 7 })
	got := BlockOn[int](task)
	assert.Equal(t, 7, got)
}

func TestTask_AwaitsChild(t *testing.T) {
	child := NewTask(func(y *TaskYield) int { return 5 })
	parent := NewTask(func(y *TaskYield) int {
		v := Await(y, child)
		return v * 2
	})
	assert.Equal(t, 10, BlockOn[int](parent))
}

func TestTask_PolledAfterReadyPanics(t *testing.T) {
	task := NewTask(func(y *TaskYield) int { return 1 })
	w := NullWaker()
	st := task.Poll(&w)
	require.True(t, st.IsReady())
	require.Panics(t, func() { task.Poll(&w) })
}

func TestTask_PanicPropagatesOnFinish(t *testing.T) {
	boom := errors.New("boom")
	task := NewTask(func(y *TaskYield) int { panic(boom) })
	w := NullWaker()

	require.Panics(t, func() { task.Poll(&w) })
}

func TestTask_Fibonacci_viaWaitAll(t *testing.T) {
	// Recursive Fibonacci built from Task + WaitAll, mirroring §8's
	// "Fibonacci via wait_all recursion" scenario.
	var fib func(n int) *Task[int]
	fib = func(n int) *Task[int] {
		return NewTask(func(y *TaskYield) int {
			if n < 2 {
				return n
			}
			results := Await(y, WaitAll[int](fib(n-1), fib(n-2)))
			return results[0] + results[1]
		})
	}
	assert.Equal(t, 55, BlockOn[int](fib(10)))
}

func TestTask_ChildPollPanicPropagatesViaAwait(t *testing.T) {
	boom := errors.New("child boom")
	child := PollableFunc[int](func(w *Waker) PollState[int] { panic(boom) })
	task := NewTask(func(y *TaskYield) int {
		Await[int](y, child)
		return 0
	})
	require.Panics(t, func() { BlockOn[int](task) })
}

func TestTask_RecoverAroundAwaitCatchesChildPanic(t *testing.T) {
	boom := errors.New("child boom")
	child := PollableFunc[int](func(w *Waker) PollState[int] { panic(boom) })
	recovered := false
	task := NewTask(func(y *TaskYield) int {
		defer func() {
			if r := recover(); r != nil {
				recovered = true
			}
		}()
		Await[int](y, child)
		return 1
	})
	got := BlockOn[int](task)
	assert.True(t, recovered)
	assert.Equal(t, 0, got)
}

func TestTask_CancelUnwindsSuspendedBody(t *testing.T) {
	cleanedUp := false
	gate, release := NewSingleEvent[struct{}]()
	task := NewTask(func(y *TaskYield) int {
		defer func() {
			if r := recover(); r != nil {
				cleanedUp = true
				panic(r)
			}
		}()
		Await(y, gate)
		return 1
	})

	w := NullWaker()
	st := task.Poll(&w)
	require.True(t, st.IsPending())

	task.Cancel()
	assert.True(t, cleanedUp)

	_ = release // never fired; task was cancelled first
}
