package pollcoro

import "sync"

// SharedMutex is a reader-biased, poll-safe shared lock (§5, §8 item 7):
// readers may hold it concurrently, but a queued writer blocks new
// readers from being admitted ("no reader starvation" — once a writer
// is waiting, it will get the lock before any reader that arrives
// after it, even though already-admitted readers finish normally).
type SharedMutex struct {
	mu          sync.Mutex
	readers     int
	writerHeld  bool
	closed      bool
	writerQueue []*mutexWaiter
	readerQueue []*mutexWaiter
}

// Close tears m down the same way [Mutex.Close] does: every queued
// reader and writer is woken so its next Poll panics with
// [ErrLoopTerminated], and every subsequent LockShared/LockExclusive call
// does the same. Already-admitted readers/writers are unaffected.
func (m *SharedMutex) Close() {
	m.mu.Lock()
	m.closed = true
	readers := m.readerQueue
	writers := m.writerQueue
	m.readerQueue = nil
	m.writerQueue = nil
	m.mu.Unlock()
	logWarn("sharedmutex: closed with waiters queued", map[string]any{
		"readers_woken": len(readers),
		"writers_woken": len(writers),
	})
	for _, n := range readers {
		n.waker.Wake()
	}
	for _, n := range writers {
		n.waker.Wake()
	}
}

// SharedMutexReadGuard represents shared (reader) ownership.
type SharedMutexReadGuard struct {
	m        *SharedMutex
	unlocked bool
}

// Unlock releases this reader's hold. See [MutexGuard] for why Go
// requires this to be explicit rather than drop-triggered.
func (g *SharedMutexReadGuard) Unlock() {
	if g.unlocked {
		return
	}
	g.unlocked = true
	g.m.unlockShared()
}

// SharedMutexWriteGuard represents exclusive (writer) ownership.
type SharedMutexWriteGuard struct {
	m        *SharedMutex
	unlocked bool
}

// Unlock releases exclusive ownership.
func (g *SharedMutexWriteGuard) Unlock() {
	if g.unlocked {
		return
	}
	g.unlocked = true
	g.m.unlockExclusive()
}

// LockShared returns a [Pollable] that resolves to a
// [SharedMutexReadGuard] once admitted.
func (m *SharedMutex) LockShared() Pollable[*SharedMutexReadGuard] {
	return &sharedLockOp{m: m}
}

// LockExclusive returns a [Pollable] that resolves to a
// [SharedMutexWriteGuard] once admitted.
func (m *SharedMutex) LockExclusive() Pollable[*SharedMutexWriteGuard] {
	return &exclusiveLockOp{m: m}
}

type sharedLockOp struct {
	m        *SharedMutex
	node     *mutexWaiter
	enqueued bool
}

func (op *sharedLockOp) Poll(w *Waker) PollState[*SharedMutexReadGuard] {
	m := op.m
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		panicContractViolation(ErrLoopTerminated)
	}
	if op.enqueued {
		if op.node.acquired {
			m.mu.Unlock()
			return ReadyState(&SharedMutexReadGuard{m: m})
		}
		op.node.waker = w.Clone()
		m.mu.Unlock()
		return PendingState[*SharedMutexReadGuard]()
	}
	if !m.writerHeld && len(m.writerQueue) == 0 {
		m.readers++
		m.mu.Unlock()
		return ReadyState(&SharedMutexReadGuard{m: m})
	}
	op.node = &mutexWaiter{waker: w.Clone()}
	m.readerQueue = append(m.readerQueue, op.node)
	op.enqueued = true
	writerQueueLen := len(m.writerQueue)
	m.mu.Unlock()
	logWarn("sharedmutex: reader queued behind pending writer", map[string]any{"writer_queue": writerQueueLen})
	return PendingState[*SharedMutexReadGuard]()
}

func (op *sharedLockOp) IsBlocking() BlockingHint { return MaybeBlocks }

type exclusiveLockOp struct {
	m        *SharedMutex
	node     *mutexWaiter
	enqueued bool
}

func (op *exclusiveLockOp) Poll(w *Waker) PollState[*SharedMutexWriteGuard] {
	m := op.m
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		panicContractViolation(ErrLoopTerminated)
	}
	if op.enqueued {
		if op.node.acquired {
			m.mu.Unlock()
			return ReadyState(&SharedMutexWriteGuard{m: m})
		}
		op.node.waker = w.Clone()
		m.mu.Unlock()
		return PendingState[*SharedMutexWriteGuard]()
	}
	if !m.writerHeld && m.readers == 0 && len(m.writerQueue) == 0 {
		m.writerHeld = true
		m.mu.Unlock()
		return ReadyState(&SharedMutexWriteGuard{m: m})
	}
	op.node = &mutexWaiter{waker: w.Clone()}
	m.writerQueue = append(m.writerQueue, op.node)
	op.enqueued = true
	position := len(m.writerQueue)
	m.mu.Unlock()
	logDebug("sharedmutex: writer queued", map[string]any{"position": position})
	return PendingState[*SharedMutexWriteGuard]()
}

func (op *exclusiveLockOp) IsBlocking() BlockingHint { return MaybeBlocks }

func (m *SharedMutex) unlockShared() {
	m.mu.Lock()
	m.readers--
	if m.readers == 0 && len(m.writerQueue) > 0 {
		next := m.writerQueue[0]
		m.writerQueue = m.writerQueue[1:]
		m.writerHeld = true
		next.acquired = true
		w := next.waker
		m.mu.Unlock()
		logDebug("sharedmutex: last reader transferring to queued writer", nil)
		w.Wake()
		return
	}
	m.mu.Unlock()
}

func (m *SharedMutex) unlockExclusive() {
	m.mu.Lock()
	if len(m.writerQueue) > 0 {
		next := m.writerQueue[0]
		m.writerQueue = m.writerQueue[1:]
		next.acquired = true
		w := next.waker
		m.mu.Unlock()
		logDebug("sharedmutex: writer transferring to next queued writer", nil)
		w.Wake()
		return
	}
	m.writerHeld = false
	pending := m.readerQueue
	m.readerQueue = nil
	m.readers += len(pending)
	m.mu.Unlock()
	logDebug("sharedmutex: writer released, admitting queued readers", map[string]any{"admitted": len(pending)})
	for _, n := range pending {
		n.acquired = true
		n.waker.Wake()
	}
}
