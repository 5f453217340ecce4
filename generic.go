package pollcoro

// GenericAwaitable type-erases a [Pollable][T] of any concrete type so
// heterogeneous pollables with the same result type can share a
// container (§5, "generic(x)"). Every combinator elsewhere in this
// package is statically specialized on its children for zero-cost
// composition; GenericAwaitable is the deliberate opt-out, at the cost
// of an interface-dispatch indirection and a conservative blocking
// hint (§9: "erasure conservatively assumes blocking").
type GenericAwaitable[T any] struct {
	inner Pollable[T]
}

// Generic boxes p as a [GenericAwaitable].
func Generic[T any](p Pollable[T]) GenericAwaitable[T] { return GenericAwaitable[T]{inner: p} }

// Poll implements [Pollable].
func (g GenericAwaitable[T]) Poll(w *Waker) PollState[T] { return g.inner.Poll(w) }

// IsBlocking implements [Blocking]. It always reports [MaybeBlocks],
// discarding whatever hint the wrapped pollable advertised, since the
// whole point of erasure is that the concrete type is no longer known
// at this call site.
func (g GenericAwaitable[T]) IsBlocking() BlockingHint { return MaybeBlocks }

// GenericStreamAwaitable is the [StreamPollable] analogue of
// [GenericAwaitable].
type GenericStreamAwaitable[T any] struct {
	inner StreamPollable[T]
}

// GenericStream boxes s as a [GenericStreamAwaitable].
func GenericStream[T any](s StreamPollable[T]) GenericStreamAwaitable[T] {
	return GenericStreamAwaitable[T]{inner: s}
}

// PollNext implements [StreamPollable].
func (g GenericStreamAwaitable[T]) PollNext(w *Waker) StreamPollState[T] { return g.inner.PollNext(w) }

// IsBlocking implements [Blocking], conservatively, per [GenericAwaitable.IsBlocking].
func (g GenericStreamAwaitable[T]) IsBlocking() BlockingHint { return MaybeBlocks }
