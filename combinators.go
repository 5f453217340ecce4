package pollcoro

// ReadyValue returns a [Pollable] that is Ready(v) on its very first
// poll and must never be polled again afterward, per the poll protocol.
type readyPollable[T any] struct{ v T }

func (p readyPollable[T]) Poll(*Waker) PollState[T] { return ReadyState(p.v) }

// IsBlocking implements [Blocking]: a value already computed never blocks.
func (p readyPollable[T]) IsBlocking() BlockingHint { return NeverBlocks }

// ReadyValue wraps a precomputed value as a [Pollable] (§5, "terminal
// value combinators").
func ReadyValue[T any](v T) Pollable[T] { return readyPollable[T]{v: v} }

// pendingForever never resolves. Useful as a building block in tests and
// for combinators (e.g. an empty WaitFirst) where "never" is the correct
// terminal behavior.
type pendingForever[T any] struct{}

func (pendingForever[T]) Poll(*Waker) PollState[T] { return PendingState[T]() }

// PendingForever returns a [Pollable] that never becomes Ready. It does
// not register the waker it is given, since there is never anything to
// wake it for; a [BlockOn] wrapping it alone will block forever.
func PendingForever[T any]() Pollable[T] { return pendingForever[T]{} }

// emptyStream is an already-exhausted stream: its very first poll_next
// reports Done (§5, "empty()").
type emptyStream[T any] struct{}

func (emptyStream[T]) PollNext(*Waker) StreamPollState[T] { return StreamDoneState[T]() }
func (emptyStream[T]) IsBlocking() BlockingHint             { return NeverBlocks }

// Empty returns a [StreamPollable] that is immediately Done.
func Empty[T any]() StreamPollable[T] { return emptyStream[T]{} }

// mapPollable applies f to the value a wrapped Pollable resolves to,
// distributing over Pending exactly as [MapPoll] does.
type mapPollable[T, R any] struct {
	inner Pollable[T]
	f     func(T) R
}

func (m mapPollable[T, R]) Poll(w *Waker) PollState[R] {
	return MapPoll(m.inner.Poll(w), m.f)
}

func (m mapPollable[T, R]) IsBlocking() BlockingHint { return blockingOf(m.inner) }

// Map returns a Pollable that resolves to f(v) once inner resolves to v
// (§5, "Map(p, f)"). f runs synchronously inside Poll, on whichever
// goroutine drives inner.
func Map[T, R any](inner Pollable[T], f func(T) R) Pollable[R] {
	return mapPollable[T, R]{inner: inner, f: f}
}

// mapStream is the stream analogue of [Map]: it applies f to each
// element as it is produced, leaving Pending/Done untouched.
type mapStream[T, R any] struct {
	inner StreamPollable[T]
	f     func(T) R
}

func (m mapStream[T, R]) PollNext(w *Waker) StreamPollState[R] {
	return MapStreamPoll(m.inner.PollNext(w), m.f)
}

func (m mapStream[T, R]) IsBlocking() BlockingHint { return blockingOf(m.inner) }

// MapStream applies f to every element of inner (§5, "Map over streams").
func MapStream[T, R any](inner StreamPollable[T], f func(T) R) StreamPollable[R] {
	return mapStream[T, R]{inner: inner, f: f}
}

// Ref is the identity function at the type level: it documents, at a
// call site, that p is being passed by reference rather than copied
// (§5, "Ref"). This matters for Task/Stream, whose coroutine frames
// must never move while in flight (§3) — passing *Task[T]/*Stream[T]
// through Ref rather than dereferencing them is how callers make that
// intent visible, even though Go's pointer receivers already enforce
// it mechanically.
func Ref[T any, P Pollable[T]](p P) Pollable[T] { return p }

// yieldN resolves Pending n times, then Ready(struct{}{}), waking itself
// immediately on every pending round so the driver reschedules it right
// away rather than parking (§4.4, "yield(n=1): a cooperative reschedule
// point spanning n poll rounds").
type yieldN struct{ remaining int }

func (y *yieldN) Poll(w *Waker) PollState[struct{}] {
	if y.remaining <= 0 {
		return ReadyState(struct{}{})
	}
	y.remaining--
	w.Wake()
	return PendingState[struct{}]()
}

func (y *yieldN) IsBlocking() BlockingHint {
	if y.remaining <= 0 {
		return NeverBlocks
	}
	return AlwaysBlocks
}

// YieldN returns a Pollable that gives up n turns of the driver before
// resolving, independent of any external event. n <= 0 resolves on the
// first poll.
func YieldN(n int) Pollable[struct{}] { return &yieldN{remaining: n} }

// Yield is YieldN(1): a Pollable that gives up one turn of the driver
// before resolving. Awaiting it inside a Task/Stream body is the
// idiomatic way to cooperatively reschedule without blocking on anything
// in particular.
func Yield() Pollable[struct{}] { return YieldN(1) }
