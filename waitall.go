package pollcoro

// This file implements the fan-in concurrency combinators of §5,
// grounded on the eventloop package's JS.All/JS.Race (promise.go):
// same completion-counting and first-settles-wins shape, adapted from
// promise callback chains to poll-driven composition — every child is
// polled every round rather than attaching a Then callback once.

// waitAll polls every not-yet-ready child on each round, collecting
// results positionally, and resolves once all have reported Ready.
type waitAll[T any] struct {
	ps        []Pollable[T]
	values    []T
	done      []bool
	remaining int
}

// WaitAll resolves once every p in ps has resolved, with results in the
// same order as ps (§5, "wait_all"). An empty ps resolves immediately
// with an empty slice.
func WaitAll[T any](ps ...Pollable[T]) Pollable[[]T] { return WaitAllSlice(ps) }

// WaitAllSlice is [WaitAll] taking a slice directly, for callers who
// already have one and want to avoid the variadic copy.
func WaitAllSlice[T any](ps []Pollable[T]) Pollable[[]T] {
	return &waitAll[T]{
		ps:        ps,
		values:    make([]T, len(ps)),
		done:      make([]bool, len(ps)),
		remaining: len(ps),
	}
}

func (w *waitAll[T]) Poll(wk *Waker) PollState[[]T] {
	if w.remaining == 0 {
		return ReadyState(w.values)
	}
	for i, p := range w.ps {
		if w.done[i] {
			continue
		}
		if s := p.Poll(wk); s.IsReady() {
			w.values[i] = s.TakeResult()
			w.done[i] = true
			w.remaining--
		}
	}
	if w.remaining == 0 {
		return ReadyState(w.values)
	}
	return PendingState[[]T]()
}

func (w *waitAll[T]) IsBlocking() BlockingHint {
	hints := make([]BlockingHint, len(w.ps))
	for i, p := range w.ps {
		hints[i] = blockingOf(p)
	}
	return CombineBlocking(hints...)
}

// waitFirst polls every child in index order each round and resolves
// with the first one ready, so a tie within a single round always
// favors the lowest index (§5, "wait_first ... ties broken by index").
type waitFirst[T any] struct {
	ps []Pollable[T]
}

// WaitFirst resolves with the value of whichever of ps resolves first,
// paired with that child's index in ps (§4.4, "wait_first"); if two or
// more resolve within the same poll round, the lowest index wins. An
// empty ps never resolves.
func WaitFirst[T any](ps ...Pollable[T]) Pollable[Pair[T, int]] { return WaitFirstSlice(ps) }

// WaitFirstSlice is [WaitFirst] taking a slice directly.
func WaitFirstSlice[T any](ps []Pollable[T]) Pollable[Pair[T, int]] {
	return &waitFirst[T]{ps: ps}
}

func (w *waitFirst[T]) Poll(wk *Waker) PollState[Pair[T, int]] {
	for i, p := range w.ps {
		if s := p.Poll(wk); s.IsReady() {
			return ReadyState(Pair[T, int]{First: s.TakeResult(), Second: i})
		}
	}
	return PendingState[Pair[T, int]]()
}

func (w *waitFirst[T]) IsBlocking() BlockingHint {
	if len(w.ps) == 0 {
		return AlwaysBlocks
	}
	hints := make([]BlockingHint, len(w.ps))
	for i, p := range w.ps {
		hints[i] = blockingOf(p)
	}
	// wait_first resolves as soon as the fastest child does, but the
	// blocking trait must be conservative: it only never blocks if no
	// child can ever block.
	return CombineBlocking(hints...)
}
