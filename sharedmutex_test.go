package pollcoro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedMutex_MultipleReadersAdmittedConcurrently(t *testing.T) {
	var m SharedMutex
	w := NullWaker()

	opA := m.LockShared()
	stA := opA.Poll(&w)
	require.True(t, stA.IsReady())

	opB := m.LockShared()
	stB := opB.Poll(&w)
	require.True(t, stB.IsReady())

	stA.TakeResult().Unlock()
	stB.TakeResult().Unlock()
}

func TestSharedMutex_QueuedWriterBlocksNewReaders(t *testing.T) {
	var m SharedMutex
	w := NullWaker()

	readGuard := BlockOn[*SharedMutexReadGuard](m.LockShared())

	writeOp := m.LockExclusive()
	stW := writeOp.Poll(&w)
	require.True(t, stW.IsPending())

	readOp := m.LockShared()
	stR := readOp.Poll(&w)
	require.True(t, stR.IsPending())

	readGuard.Unlock()

	stW = writeOp.Poll(&w)
	require.True(t, stW.IsReady())

	stR = readOp.Poll(&w)
	require.True(t, stR.IsPending())

	stW.TakeResult().Unlock()

	stR = readOp.Poll(&w)
	require.True(t, stR.IsReady())
	stR.TakeResult().Unlock()
}

func TestSharedMutex_CloseWakesQueuedWaitersToPanic(t *testing.T) {
	var m SharedMutex
	w := NullWaker()

	writer := BlockOn[*SharedMutexWriteGuard](m.LockExclusive())
	readOp := m.LockShared()
	require.True(t, readOp.Poll(&w).IsPending())

	m.Close()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		cv, ok := r.(*ContractViolation)
		require.True(t, ok)
		assert.ErrorIs(t, cv, ErrLoopTerminated)
		writer.Unlock()
	}()
	readOp.Poll(&w)
}

func TestSharedMutex_LockAfterClosePanics(t *testing.T) {
	var m SharedMutex
	m.Close()
	w := NullWaker()

	assert.Panics(t, func() { m.LockShared().Poll(&w) })
	assert.Panics(t, func() { m.LockExclusive().Poll(&w) })
}

func TestSharedMutex_WriterToWriterTransferPreferredOverReaders(t *testing.T) {
	var m SharedMutex
	w := NullWaker()

	writeGuard := BlockOn[*SharedMutexWriteGuard](m.LockExclusive())

	readOp := m.LockShared()
	stR := readOp.Poll(&w)
	require.True(t, stR.IsPending())

	writeOp2 := m.LockExclusive()
	stW2 := writeOp2.Poll(&w)
	require.True(t, stW2.IsPending())

	writeGuard.Unlock()

	stW2 = writeOp2.Poll(&w)
	require.True(t, stW2.IsReady())

	stR = readOp.Poll(&w)
	require.True(t, stR.IsPending())

	stW2.TakeResult().Unlock()

	stR = readOp.Poll(&w)
	require.True(t, stR.IsReady())
	stR.TakeResult().Unlock()
}
