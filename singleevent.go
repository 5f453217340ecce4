package pollcoro

import "sync"

// SingleEventAwaitable is the pollable half of a [NewSingleEvent] pair:
// it reports Pending until the paired setter is called, then Ready(v)
// forever after (§5, "single_event<T>: a one-shot channel").
type SingleEventAwaitable[T any] struct {
	st *singleEventState[T]
}

type singleEventState[T any] struct {
	mu    sync.Mutex
	ready bool
	value T
	waker Waker
}

// NewSingleEvent returns a one-shot (awaitable, setter) pair. The
// setter is safe to call from any goroutine at any time; only its
// first call has any effect. Poll registers whatever waker it is
// passed, same as every other [Pollable].
func NewSingleEvent[T any]() (*SingleEventAwaitable[T], func(T)) {
	st := &singleEventState[T]{}
	setter := func(v T) {
		st.mu.Lock()
		if st.ready {
			st.mu.Unlock()
			return
		}
		st.ready = true
		st.value = v
		w := st.waker
		st.waker = Waker{}
		st.mu.Unlock()
		w.Wake()
	}
	return &SingleEventAwaitable[T]{st: st}, setter
}

// Poll implements [Pollable].
func (a *SingleEventAwaitable[T]) Poll(w *Waker) PollState[T] {
	st := a.st
	st.mu.Lock()
	if st.ready {
		v := st.value
		st.mu.Unlock()
		return ReadyState(v)
	}
	st.waker = w.Clone()
	st.mu.Unlock()
	return PendingState[T]()
}

// IsBlocking implements [Blocking]: a single_event always may block,
// since whether the setter has already fired is not known statically.
func (a *SingleEventAwaitable[T]) IsBlocking() BlockingHint { return MaybeBlocks }

// Close clears the stored waker without affecting the event's eventual
// value, mirroring "dropping the awaitable clears the waker" (§5) —
// the closest Go has to that destructor, for callers who stop polling
// an awaitable before it resolves and want to release whatever the
// waker was keeping alive.
func (a *SingleEventAwaitable[T]) Close() {
	st := a.st
	st.mu.Lock()
	st.waker = Waker{}
	st.mu.Unlock()
}
