package pollcoro

// Pollable is the minimal contract (§4.1) a value satisfies to be
// polled for a single value of type T: Poll may be called arbitrarily
// many times while Pending, must be callable at least once, and each
// call registers the most recently passed waker as the one that will be
// fired. A Pollable must never be polled again after it returns Ready.
type Pollable[T any] interface {
	Poll(w *Waker) PollState[T]
}

// StreamPollable mirrors [Pollable] for a sequence of values, with the
// additional sticky Done terminal state.
type StreamPollable[T any] interface {
	PollNext(w *Waker) StreamPollState[T]
}

// PollableFunc adapts a plain function to the [Pollable] interface.
type PollableFunc[T any] func(w *Waker) PollState[T]

// Poll implements [Pollable].
func (f PollableFunc[T]) Poll(w *Waker) PollState[T] { return f(w) }

// StreamPollableFunc adapts a plain function to the [StreamPollable]
// interface.
type StreamPollableFunc[T any] func(w *Waker) StreamPollState[T]

// PollNext implements [StreamPollable].
func (f StreamPollableFunc[T]) PollNext(w *Waker) StreamPollState[T] { return f(w) }

// BlockingHint is a runtime-checkable, best-effort analogue of a
// compile-time is_blocking trait (§4.1). Go has no trait system,
// so pollcoro exposes it as an interface a [Pollable]/[StreamPollable]
// implementation may optionally satisfy; types that do not are treated
// conservatively as MaybeBlock by [BlockOn]'s fast-path check, matching
// the erasure rule in §9 ("erasure conservatively assumes blocking").
type BlockingHint int

const (
	// NeverBlocks: every Poll/PollNext call returns Ready/non-Pending.
	NeverBlocks BlockingHint = iota
	// MaybeBlocks: blocking depends on composed children.
	MaybeBlocks
	// AlwaysBlocks: at least one Poll/PollNext call is expected to
	// return Pending.
	AlwaysBlocks
)

// Blocking is the optional interface a [Pollable] or [StreamPollable]
// implements to advertise its [BlockingHint].
type Blocking interface {
	IsBlocking() BlockingHint
}

// blockingOf reads the BlockingHint off v if it implements [Blocking],
// defaulting to MaybeBlocks.
func blockingOf(v any) BlockingHint {
	if b, ok := v.(Blocking); ok {
		return b.IsBlocking()
	}
	return MaybeBlocks
}

// CombineBlocking implements the maybe_blocks<Children...> rule of §4.1:
// is_blocking_v<maybe_blocks<A,B>> == is_blocking_v<A> || is_blocking_v<B>.
func CombineBlocking(hints ...BlockingHint) BlockingHint {
	allNever := true
	for _, h := range hints {
		if h == AlwaysBlocks {
			return AlwaysBlocks
		}
		if h != NeverBlocks {
			allNever = false
		}
	}
	if allNever {
		return NeverBlocks
	}
	return MaybeBlocks
}
