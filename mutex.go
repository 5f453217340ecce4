package pollcoro

import "sync"

// Mutex is a FIFO-fair, poll-safe mutual-exclusion lock (§5, §8 item 6):
// if poll A of [Mutex.Lock] begins strictly before poll B and neither
// has yet acquired, A acquires first. Unlike sync.Mutex it is safe to
// hold across a suspension boundary — [Mutex.Lock] returns a [Pollable]
// rather than blocking the calling goroutine, so a Task/Stream body can
// co_await it without pinning an OS thread while queued.
type Mutex struct {
	mu     sync.Mutex
	locked bool
	closed bool
	queue  []*mutexWaiter
}

// Close tears m down: every currently queued [Mutex.Lock] waiter is woken
// so its next Poll panics with [ErrLoopTerminated], and every subsequent
// Lock/TryLock call does the same. Close does not affect a holder that
// has already acquired the lock; that holder may still call Unlock.
func (m *Mutex) Close() {
	m.mu.Lock()
	m.closed = true
	queue := m.queue
	m.queue = nil
	m.mu.Unlock()
	logWarn("mutex: closed with waiters queued", map[string]any{"woken": len(queue)})
	for _, n := range queue {
		n.waker.Wake()
	}
}

type mutexWaiter struct {
	waker    Waker
	acquired bool
}

// MutexGuard represents ownership of a [Mutex]. The lock releases when
// Unlock is called; Go has no destructors, so — unlike the host
// language's RAII guard — a dropped-without-unlocking MutexGuard leaves
// the mutex held forever. Callers should defer g.Unlock().
type MutexGuard struct {
	m        *Mutex
	unlocked bool
}

// Unlock releases the lock, waking the head of the FIFO queue (if any)
// and transferring ownership to it directly — the woken poll is
// guaranteed to succeed, per §5's "lock is transferred logically"
// wording. Calling Unlock more than once is a no-op.
func (g *MutexGuard) Unlock() {
	if g.unlocked {
		return
	}
	g.unlocked = true
	g.m.unlock()
}

func (m *Mutex) unlock() {
	m.mu.Lock()
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		next.acquired = true
		w := next.waker
		remaining := len(m.queue)
		m.mu.Unlock()
		logDebug("mutex: transferring lock to queue head", map[string]any{"queue_remaining": remaining})
		w.Wake()
		return
	}
	m.locked = false
	m.mu.Unlock()
	logDebug("mutex: released with empty queue", nil)
}

// mutexLockOp is the Pollable returned by [Mutex.Lock]; it is a single
// lock attempt, not reusable.
type mutexLockOp struct {
	m        *Mutex
	node     *mutexWaiter
	enqueued bool
}

// Lock returns a [Pollable] that resolves to a [MutexGuard] once
// acquired, queueing FIFO behind any outstanding holder or waiters.
func (m *Mutex) Lock() Pollable[*MutexGuard] { return &mutexLockOp{m: m} }

func (op *mutexLockOp) Poll(w *Waker) PollState[*MutexGuard] {
	m := op.m
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		panicContractViolation(ErrLoopTerminated)
	}
	if op.enqueued {
		if op.node.acquired {
			m.mu.Unlock()
			return ReadyState(&MutexGuard{m: m})
		}
		op.node.waker = w.Clone()
		m.mu.Unlock()
		return PendingState[*MutexGuard]()
	}
	if !m.locked && len(m.queue) == 0 {
		m.locked = true
		m.mu.Unlock()
		return ReadyState(&MutexGuard{m: m})
	}
	op.node = &mutexWaiter{waker: w.Clone()}
	m.queue = append(m.queue, op.node)
	op.enqueued = true
	position := len(m.queue)
	m.mu.Unlock()
	logDebug("mutex: queued waiter", map[string]any{"position": position})
	return PendingState[*MutexGuard]()
}

func (op *mutexLockOp) IsBlocking() BlockingHint { return MaybeBlocks }

// TryLock attempts to acquire m without waiting, returning (nil, false)
// if it is currently held or has a nonempty FIFO queue — try_lock never
// jumps the queue.
func (m *Mutex) TryLock() (*MutexGuard, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		panicContractViolation(ErrLoopTerminated)
	}
	if !m.locked && len(m.queue) == 0 {
		m.locked = true
		return &MutexGuard{m: m}, true
	}
	return nil, false
}
