package pollcoro

import (
	"sync"
	"time"
)

// condWaiter is the {mutex, condvar, notified} wait_data struct of §4.7,
// adapted from the eventloop package's run loop (which parks on a
// wake-pipe read instead; condvar is the idiomatic Go analogue for a
// single calling goroutine rather than a poller thread).
type condWaiter struct {
	mu       sync.Mutex
	cond     *sync.Cond
	notified bool
}

func newCondWaiter() *condWaiter {
	w := &condWaiter{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Wake implements wakeable: it is the method [NewWaker] calls by name.
func (w *condWaiter) Wake() {
	w.mu.Lock()
	w.notified = true
	w.mu.Unlock()
	w.cond.Signal()
}

func (w *condWaiter) waitUntilNotified() {
	w.mu.Lock()
	for !w.notified {
		w.cond.Wait()
	}
	w.notified = false
	w.mu.Unlock()
}

// BlockOn runs p to completion on the calling goroutine and returns its
// result.
//
// If p advertises [NeverBlocks] via [Blocking], BlockOn polls it in a
// tight loop with a [NullWaker] — no condvar, no allocation beyond the
// waker itself. Otherwise BlockOn builds a condvar-backed waker per
// §4.7: poll; if Pending, sleep until woken; repeat.
//
// Any [PanicError] captured by a Task/Stream's coroutine body, or any
// [ContractViolation], propagates by panicking out of BlockOn rather
// than by a return value — pollcoro has no error-return path of its
// own (§7); callers that want panics converted to errors should recover
// at the BlockOn call site.
func BlockOn[T any](p Pollable[T], opts ...BlockOnOption) T {
	cfg := resolveBlockOnOptions(opts)

	if blockingOf(p) == NeverBlocks && !cfg.forceCAS {
		w := NullWaker()
		for {
			cfg.metrics.recordPoll()
			if s := p.Poll(&w); s.IsReady() {
				return s.TakeResult()
			}
		}
	}

	waiter := newCondWaiter()
	w := NewWaker(waiter)
	for {
		cfg.metrics.recordPoll()
		if s := p.Poll(&w); s.IsReady() {
			return s.TakeResult()
		}
		waiter.waitUntilNotified()
		cfg.metrics.recordWake(time.Now())
		cfg.logger.Log(LevelDebug, "pollcoro: driver woke", nil)
	}
}

// BlockOnStream drains s to completion, calling each yielded element
// through onValue in order, then returns. It is the stream analogue of
// BlockOn; there is no return value because a stream's terminal state
// (Done) carries none.
func BlockOnStream[T any](s StreamPollable[T], onValue func(T), opts ...BlockOnOption) {
	cfg := resolveBlockOnOptions(opts)

	poll := func(w *Waker) StreamPollState[T] { return s.PollNext(w) }

	if blockingOf(s) == NeverBlocks && !cfg.forceCAS {
		w := NullWaker()
		for {
			cfg.metrics.recordPoll()
			st := poll(&w)
			switch {
			case st.IsDone():
				return
			case st.IsReady():
				onValue(st.TakeResult())
			}
		}
	}

	waiter := newCondWaiter()
	w := NewWaker(waiter)
	for {
		cfg.metrics.recordPoll()
		st := poll(&w)
		switch {
		case st.IsDone():
			return
		case st.IsReady():
			onValue(st.TakeResult())
			continue
		}
		waiter.waitUntilNotified()
		cfg.metrics.recordWake(time.Now())
		cfg.logger.Log(LevelDebug, "pollcoro: driver woke", nil)
	}
}
