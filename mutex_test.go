package pollcoro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutex_UncontendedAcquireIsImmediate(t *testing.T) {
	var m Mutex
	g := BlockOn[*MutexGuard](m.Lock())
	require.NotNil(t, g)
	g.Unlock()
}

func TestMutex_FIFOOrdering(t *testing.T) {
	var m Mutex
	w := NullWaker()

	holder := BlockOn[*MutexGuard](m.Lock())

	opB := m.Lock()
	stB := opB.Poll(&w)
	require.True(t, stB.IsPending())

	opC := m.Lock()
	stC := opC.Poll(&w)
	require.True(t, stC.IsPending())

	holder.Unlock()

	stB = opB.Poll(&w)
	require.True(t, stB.IsReady())
	guardB := stB.TakeResult()

	stC = opC.Poll(&w)
	require.True(t, stC.IsPending())

	guardB.Unlock()

	stC = opC.Poll(&w)
	require.True(t, stC.IsReady())
	stC.TakeResult().Unlock()
}

func TestMutex_TryLockNeverJumpsQueue(t *testing.T) {
	var m Mutex
	w := NullWaker()

	_ = BlockOn[*MutexGuard](m.Lock())

	op := m.Lock()
	st := op.Poll(&w)
	require.True(t, st.IsPending())

	_, ok := m.TryLock()
	assert.False(t, ok)
}

func TestMutex_TryLockSucceedsWhenFree(t *testing.T) {
	var m Mutex
	g, ok := m.TryLock()
	require.True(t, ok)
	g.Unlock()
}

func TestMutex_CloseWakesQueuedWaiterToPanic(t *testing.T) {
	var m Mutex
	w := NullWaker()

	holder := BlockOn[*MutexGuard](m.Lock())
	op := m.Lock()
	require.True(t, op.Poll(&w).IsPending())

	m.Close()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		cv, ok := r.(*ContractViolation)
		require.True(t, ok)
		assert.ErrorIs(t, cv, ErrLoopTerminated)
		holder.Unlock()
	}()
	op.Poll(&w)
}

func TestMutex_LockAfterClosePanics(t *testing.T) {
	var m Mutex
	m.Close()
	w := NullWaker()

	assert.Panics(t, func() { m.Lock().Poll(&w) })
	assert.Panics(t, func() { m.TryLock() })
}
