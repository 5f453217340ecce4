package pollcoro

// This file implements the generator and filter/transform stream
// combinators of §5. None of them spawn a goroutine: a Range, Take,
// Chain, and so on are plain value types that delegate to an inner
// StreamPollable, exactly as the Map/Ref combinators in combinators.go
// do for Pollable. Only constructs that genuinely need a suspended
// coroutine body (co_yield <substream>, recursive generators) reach for
// [Stream] itself.

// rangeStream yields start, start+step, ... while < end (or > end when
// step is negative), then Done. Never blocks.
type rangeStream struct {
	cur, end, step int
	done           bool
}

// RangeStream yields integers from start (inclusive) to end (exclusive)
// advancing by step, which must be nonzero. A step that can never reach
// end (e.g. positive step on a start >= end) yields nothing.
func RangeStream(start, end, step int) StreamPollable[int] {
	return &rangeStream{cur: start, end: end, step: step}
}

func (r *rangeStream) PollNext(*Waker) StreamPollState[int] {
	if r.done {
		return StreamDoneState[int]()
	}
	if r.step > 0 && r.cur >= r.end || r.step < 0 && r.cur <= r.end {
		r.done = true
		return StreamDoneState[int]()
	}
	v := r.cur
	r.cur += r.step
	return StreamReadyState(v)
}

func (r *rangeStream) IsBlocking() BlockingHint { return NeverBlocks }

// repeatStream yields the same value forever. Never blocks, never Done.
type repeatStream[T any] struct{ v T }

// RepeatStream yields v forever.
func RepeatStream[T any](v T) StreamPollable[T] { return repeatStream[T]{v: v} }

func (r repeatStream[T]) PollNext(*Waker) StreamPollState[T] { return StreamReadyState(r.v) }
func (r repeatStream[T]) IsBlocking() BlockingHint              { return NeverBlocks }

// iterStream adapts a Go slice into a StreamPollable, yielding each
// element in order then Done. Never blocks.
type iterStream[T any] struct {
	items []T
	idx   int
}

// IterStream yields each element of items in order, then Done.
func IterStream[T any](items []T) StreamPollable[T] {
	return &iterStream[T]{items: items}
}

func (it *iterStream[T]) PollNext(*Waker) StreamPollState[T] {
	if it.idx >= len(it.items) {
		return StreamDoneState[T]()
	}
	v := it.items[it.idx]
	it.idx++
	return StreamReadyState(v)
}

func (it *iterStream[T]) IsBlocking() BlockingHint { return NeverBlocks }

// takeStream yields at most n elements of inner, then Done — even if
// inner still has more (§5, "Take(s, n)").
type takeStream[T any] struct {
	inner     StreamPollable[T]
	remaining int
}

// Take yields at most n elements of inner.
func Take[T any](inner StreamPollable[T], n int) StreamPollable[T] {
	return &takeStream[T]{inner: inner, remaining: n}
}

func (t *takeStream[T]) PollNext(w *Waker) StreamPollState[T] {
	if t.remaining <= 0 {
		return StreamDoneState[T]()
	}
	st := t.inner.PollNext(w)
	if st.IsReady() {
		t.remaining--
	}
	return st
}

func (t *takeStream[T]) IsBlocking() BlockingHint { return blockingOf(t.inner) }

// skipStream discards the first n elements of inner, then passes
// everything through (§5, "Skip(s, n)").
type skipStream[T any] struct {
	inner   StreamPollable[T]
	skipped int
	n       int
}

// Skip discards the first n elements of inner.
func Skip[T any](inner StreamPollable[T], n int) StreamPollable[T] {
	return &skipStream[T]{inner: inner, n: n}
}

func (s *skipStream[T]) PollNext(w *Waker) StreamPollState[T] {
	for s.skipped < s.n {
		st := s.inner.PollNext(w)
		switch {
		case st.IsPending():
			return st
		case st.IsDone():
			return st
		default:
			s.skipped++
		}
	}
	return s.inner.PollNext(w)
}

func (s *skipStream[T]) IsBlocking() BlockingHint { return blockingOf(s.inner) }

// takeWhileStream yields elements of inner while pred holds, then Done
// forever — including the element that first fails pred, which is
// consumed from inner but not yielded (§5, "TakeWhile").
type takeWhileStream[T any] struct {
	inner StreamPollable[T]
	pred  func(T) bool
	done  bool
}

// TakeWhile yields elements of inner until pred first returns false.
func TakeWhile[T any](inner StreamPollable[T], pred func(T) bool) StreamPollable[T] {
	return &takeWhileStream[T]{inner: inner, pred: pred}
}

func (t *takeWhileStream[T]) PollNext(w *Waker) StreamPollState[T] {
	if t.done {
		return StreamDoneState[T]()
	}
	st := t.inner.PollNext(w)
	if st.IsReady() {
		v := st.TakeResult()
		if !t.pred(v) {
			t.done = true
			return StreamDoneState[T]()
		}
		return StreamReadyState(v)
	}
	if st.IsDone() {
		t.done = true
	}
	return st
}

func (t *takeWhileStream[T]) IsBlocking() BlockingHint { return blockingOf(t.inner) }

// skipWhileStream discards elements of inner while pred holds, then
// passes everything through starting with the first element pred
// rejects (§5, "SkipWhile").
type skipWhileStream[T any] struct {
	inner    StreamPollable[T]
	pred     func(T) bool
	skipping bool
}

// SkipWhile discards elements of inner until pred first returns false.
func SkipWhile[T any](inner StreamPollable[T], pred func(T) bool) StreamPollable[T] {
	return &skipWhileStream[T]{inner: inner, pred: pred, skipping: true}
}

func (s *skipWhileStream[T]) PollNext(w *Waker) StreamPollState[T] {
	for s.skipping {
		st := s.inner.PollNext(w)
		switch {
		case st.IsPending():
			return st
		case st.IsDone():
			s.skipping = false
			return st
		default:
			v := st.TakeResult()
			if !s.pred(v) {
				s.skipping = false
				return StreamReadyState(v)
			}
		}
	}
	return s.inner.PollNext(w)
}

func (s *skipWhileStream[T]) IsBlocking() BlockingHint { return blockingOf(s.inner) }

// chainStream exhausts first entirely, then second (§5, "Chain").
type chainStream[T any] struct {
	first, second StreamPollable[T]
	onSecond      bool
}

// Chain yields every element of first, then every element of second.
func Chain[T any](first, second StreamPollable[T]) StreamPollable[T] {
	return &chainStream[T]{first: first, second: second}
}

func (c *chainStream[T]) PollNext(w *Waker) StreamPollState[T] {
	if !c.onSecond {
		st := c.first.PollNext(w)
		if !st.IsDone() {
			return st
		}
		c.onSecond = true
	}
	return c.second.PollNext(w)
}

func (c *chainStream[T]) IsBlocking() BlockingHint {
	return CombineBlocking(blockingOf(c.first), blockingOf(c.second))
}

// flattenStream concatenates a stream of streams, one sub-stream fully
// drained before the next begins — the general form of Chain (§5,
// "Flatten").
type flattenStream[T any] struct {
	outer StreamPollable[StreamPollable[T]]
	cur   StreamPollable[T]
	done  bool
}

// Flatten drains each sub-stream outer produces, in order, to a single
// stream of their elements.
func Flatten[T any](outer StreamPollable[StreamPollable[T]]) StreamPollable[T] {
	return &flattenStream[T]{outer: outer}
}

func (f *flattenStream[T]) PollNext(w *Waker) StreamPollState[T] {
	for {
		if f.done {
			return StreamDoneState[T]()
		}
		if f.cur == nil {
			st := f.outer.PollNext(w)
			switch {
			case st.IsPending():
				return StreamPendingState[T]()
			case st.IsDone():
				f.done = true
				return StreamDoneState[T]()
			default:
				f.cur = st.TakeResult()
				continue
			}
		}
		st := f.cur.PollNext(w)
		switch {
		case st.IsPending():
			return StreamPendingState[T]()
		case st.IsDone():
			f.cur = nil
			continue
		default:
			return st
		}
	}
}

func (f *flattenStream[T]) IsBlocking() BlockingHint { return MaybeBlocks }

// zipStream pairs elements of a and b positionally, ending as soon as
// either input is Done — the shorter stream determines the zip's length
// (§5, "Zip(a, b)").
type zipStream[A, B any] struct {
	a        StreamPollable[A]
	b        StreamPollable[B]
	aVal     A
	bVal     B
	haveA    bool
	haveB    bool
	finished bool
}

// Pair is the element type [Zip] produces.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip pairs elements of a and b positionally, stopping when either runs
// out.
func Zip[A, B any](a StreamPollable[A], b StreamPollable[B]) StreamPollable[Pair[A, B]] {
	return &zipStream[A, B]{a: a, b: b}
}

func (z *zipStream[A, B]) PollNext(w *Waker) StreamPollState[Pair[A, B]] {
	if z.finished {
		return StreamDoneState[Pair[A, B]]()
	}
	if !z.haveA {
		st := z.a.PollNext(w)
		switch {
		case st.IsDone():
			z.finished = true
			return StreamDoneState[Pair[A, B]]()
		case st.IsReady():
			z.aVal = st.TakeResult()
			z.haveA = true
		}
	}
	if !z.haveB {
		st := z.b.PollNext(w)
		switch {
		case st.IsDone():
			z.finished = true
			return StreamDoneState[Pair[A, B]]()
		case st.IsReady():
			z.bVal = st.TakeResult()
			z.haveB = true
		}
	}
	if !z.haveA || !z.haveB {
		return StreamPendingState[Pair[A, B]]()
	}
	pair := Pair[A, B]{First: z.aVal, Second: z.bVal}
	z.haveA, z.haveB = false, false
	return StreamReadyState(pair)
}

func (z *zipStream[A, B]) IsBlocking() BlockingHint {
	return CombineBlocking(blockingOf(z.a), blockingOf(z.b))
}

// Indexed is the element type [Enumerate] produces.
type Indexed[T any] struct {
	Index int
	Value T
}

// enumerateStream pairs each element of inner with its 0-based position
// (§5, "Enumerate").
type enumerateStream[T any] struct {
	inner StreamPollable[T]
	next  int
}

// Enumerate pairs each element of inner with its 0-based index.
func Enumerate[T any](inner StreamPollable[T]) StreamPollable[Indexed[T]] {
	return &enumerateStream[T]{inner: inner}
}

func (e *enumerateStream[T]) PollNext(w *Waker) StreamPollState[Indexed[T]] {
	st := e.inner.PollNext(w)
	switch {
	case st.IsReady():
		v := st.TakeResult()
		idx := e.next
		e.next++
		return StreamReadyState(Indexed[T]{Index: idx, Value: v})
	case st.IsDone():
		return StreamDoneState[Indexed[T]]()
	default:
		return StreamPendingState[Indexed[T]]()
	}
}

func (e *enumerateStream[T]) IsBlocking() BlockingHint { return blockingOf(e.inner) }

// windowStream yields overlapping slices of the last n elements of
// inner, sliding by one each time, starting once n elements have
// accumulated (§5, "Window(s, n)"). The returned slices are freshly
// allocated each time and safe for the caller to retain.
type windowStream[T any] struct {
	inner StreamPollable[T]
	buf   []T
	n     int
}

// Window yields overlapping slices of the n most recent elements of
// inner.
func Window[T any](inner StreamPollable[T], n int) StreamPollable[[]T] {
	return &windowStream[T]{inner: inner, n: n, buf: make([]T, 0, n)}
}

func (w *windowStream[T]) PollNext(wk *Waker) StreamPollState[[]T] {
	for len(w.buf) < w.n {
		st := w.inner.PollNext(wk)
		switch {
		case st.IsPending():
			return StreamPendingState[[]T]()
		case st.IsDone():
			return StreamDoneState[[]T]()
		default:
			w.buf = append(w.buf, st.TakeResult())
		}
	}
	out := make([]T, w.n)
	copy(out, w.buf)
	w.buf = w.buf[1:]
	return StreamReadyState(out)
}

func (w *windowStream[T]) IsBlocking() BlockingHint { return blockingOf(w.inner) }

// Fold as a [Pollable] drains s and resolves to the final accumulator,
// exactly like a strict left fold (§4.4, "fold(s, init, f)"). f returns
// the updated accumulator plus a bool: false stops iteration immediately
// and resolves to that accumulator without draining the rest of s.
type foldPollable[T, A any] struct {
	s   StreamPollable[T]
	acc A
	f   func(A, T) (A, bool)
}

// Fold drains s, combining elements into acc via f, and resolves to the
// final accumulator once s reports Done or f returns false to stop early.
func Fold[T, A any](s StreamPollable[T], init A, f func(A, T) (A, bool)) Pollable[A] {
	return &foldPollable[T, A]{s: s, acc: init, f: f}
}

func (fp *foldPollable[T, A]) Poll(w *Waker) PollState[A] {
	for {
		st := fp.s.PollNext(w)
		switch {
		case st.IsPending():
			return PendingState[A]()
		case st.IsDone():
			return ReadyState(fp.acc)
		default:
			var ok bool
			fp.acc, ok = fp.f(fp.acc, st.TakeResult())
			if !ok {
				return ReadyState(fp.acc)
			}
		}
	}
}

func (fp *foldPollable[T, A]) IsBlocking() BlockingHint { return blockingOf(fp.s) }

// Last resolves to the final element s produces, or Valid=false if s was
// already empty (§5, "Last(s)").
func Last[T any](s StreamPollable[T]) Pollable[Optional[T]] {
	return Fold(s, Optional[T]{}, func(_ Optional[T], v T) (Optional[T], bool) {
		return Optional[T]{Value: v, Valid: true}, true
	})
}

// Optional is a (value, present) pair, used where a stream combinator
// may or may not have a value to report (Last, Nth on a short stream).
type Optional[T any] struct {
	Value T
	Valid bool
}

// nthPollable resolves to the nth (0-based) element s produces, or
// Valid=false if s reaches Done first (§5, "Nth(s, n)").
type nthPollable[T any] struct {
	s StreamPollable[T]
	n int
}

// Nth resolves to the nth (0-based) element of s.
func Nth[T any](s StreamPollable[T], n int) Pollable[Optional[T]] {
	return &nthPollable[T]{s: s, n: n}
}

func (np *nthPollable[T]) Poll(w *Waker) PollState[Optional[T]] {
	for {
		st := np.s.PollNext(w)
		switch {
		case st.IsPending():
			return PendingState[Optional[T]]()
		case st.IsDone():
			return ReadyState(Optional[T]{})
		default:
			v := st.TakeResult()
			if np.n == 0 {
				return ReadyState(Optional[T]{Value: v, Valid: true})
			}
			np.n--
		}
	}
}

func (np *nthPollable[T]) IsBlocking() BlockingHint { return blockingOf(np.s) }

// scanStream is the streaming counterpart of [Fold]: instead of a single
// final accumulator, it emits every intermediate accumulation, one per
// element of inner, carried over from the scoped package's Stream.Scan.
type scanStream[T, A any] struct {
	inner StreamPollable[T]
	acc   A
	f     func(A, T) A
}

// Scan applies f cumulatively over inner's elements, emitting each
// intermediate accumulation starting from f(init, firstElement).
func Scan[T, A any](inner StreamPollable[T], init A, f func(A, T) A) StreamPollable[A] {
	return &scanStream[T, A]{inner: inner, acc: init, f: f}
}

func (s *scanStream[T, A]) PollNext(w *Waker) StreamPollState[A] {
	st := s.inner.PollNext(w)
	switch {
	case st.IsReady():
		s.acc = s.f(s.acc, st.TakeResult())
		return StreamReadyState(s.acc)
	case st.IsDone():
		return StreamDoneState[A]()
	default:
		return StreamPendingState[A]()
	}
}

func (s *scanStream[T, A]) IsBlocking() BlockingHint { return blockingOf(s.inner) }

// Pipe chains a sequence of same-typed stream transforms left to right,
// the Go-idiomatic stand-in for "|"-style pipeline composition (§4.4):
// Go has no operator overloading, and a variadic chain across
// heterogeneous element types cannot be expressed without sacrificing
// static typing, so Pipe covers the common case of a pipeline that
// narrows/filters/reorders a single element type, and [PipeStream]
// covers a single type-changing hop for composing the rest by nesting.
func Pipe[T any](s StreamPollable[T], ops ...func(StreamPollable[T]) StreamPollable[T]) StreamPollable[T] {
	for _, op := range ops {
		s = op(s)
	}
	return s
}

// PipeStream applies a single type-changing stage to s, for composing
// heterogeneous pipelines by nesting calls: PipeStream(PipeStream(s, op1), op2).
func PipeStream[T, R any](s StreamPollable[T], op func(StreamPollable[T]) StreamPollable[R]) StreamPollable[R] {
	return op(s)
}

// strictDoneStream enforces that inner is never polled again once it has
// reported Done, for callers who want that contract asserted rather than
// the default "conventionally repeats Done" looseness of [StreamPollable]
// (§7.3).
type strictDoneStream[T any] struct {
	inner StreamPollable[T]
	done  bool
}

// StrictDone wraps inner so that any PollNext call after it has already
// reported Done panics with [ErrPolledAfterDone] instead of silently
// repeating Done.
func StrictDone[T any](inner StreamPollable[T]) StreamPollable[T] {
	return &strictDoneStream[T]{inner: inner}
}

func (s *strictDoneStream[T]) PollNext(w *Waker) StreamPollState[T] {
	if s.done {
		panicContractViolation(ErrPolledAfterDone)
	}
	st := s.inner.PollNext(w)
	if st.IsDone() {
		s.done = true
	}
	return st
}

func (s *strictDoneStream[T]) IsBlocking() BlockingHint { return blockingOf(s.inner) }
