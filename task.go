package pollcoro

// Task[T] is a pollable whose state is owned by a goroutine emulating a
// host coroutine frame (§4.3). Go has no stackful coroutines below the
// level of the runtime's own (unexported) primitive behind iter.Pull;
// pollcoro follows that exact idiom — a dedicated goroutine and a pair
// of unbuffered channels used strictly as a baton, so only one side
// (the driving Poll call or the task body) ever runs at a time. See
// DESIGN.md for why this is the idiomatic Go stand-in rather than a
// hand-rolled state machine per body.
//
// A Task is single-consumer: Poll must never be called concurrently
// from two goroutines, and polling again after Poll has returned Ready
// is a contract violation (panics with [ErrPolledAfterReady]). A Task
// must not be relocated while in flight; since every reference to it is
// through *Task[T], and Go never relocates heap objects out from under
// a live pointer, this invariant holds for free once a Task is always
// used by pointer (the heap-allocate-the-frame strategy of design note
// §9, option (a)).
type Task[T any] struct {
	core coreFrame

	body    func(y *TaskYield) T
	started bool
	done    bool
	result  T

	consumed bool
}

// coreFrame is the untyped half of a coroutine frame, factored out of
// Task[T]/Stream[T] so [TaskYield]/[StreamYield] need not themselves be
// generic over T (only Await's own type parameter R varies per call).
type coreFrame struct {
	toCoro   chan struct{}
	fromCoro chan struct{}

	// currentChildPoll is the installed "poll the awaited child" closure
	// (§4.3 item 2): non-nil exactly while the coroutine is suspended on
	// a co_await. Written by the coroutine goroutine, read by the
	// driving Poll call; the two never run concurrently.
	currentChildPoll func(w *Waker) bool

	panicVal  any
	aborted   bool
	allocator Allocator
	released  bool

	// childPanicVal/childPanicked carry a panic recovered from a child's
	// Poll/PollNext call, which runs on the driving goroutine rather than
	// the coroutine goroutine (the coroutine sits parked on <-toCoro while
	// its installed currentChildPoll/drain closure is invoked from Poll).
	// Recovering there and re-panicking once control returns to the
	// coroutine goroutine routes it through the same recover in run() that
	// handles a panic thrown directly in the body.
	childPanicVal any
	childPanicked bool
}

// newCoreFrame allocates a frame's channel pair, preferring the calling
// goroutine's current [Allocator] (§4.8) if one is installed via
// [AllocateIn]. release returns the pair for reuse once the
// coroutine reaches a terminal state.
func newCoreFrame() coreFrame {
	alloc := CurrentAllocator()
	if alloc != nil {
		if v := alloc.Get(); v != nil {
			if cp, ok := v.(*chanPair); ok {
				return coreFrame{toCoro: cp.toCoro, fromCoro: cp.fromCoro, allocator: alloc}
			}
		}
	}
	return coreFrame{
		toCoro:    make(chan struct{}),
		fromCoro:  make(chan struct{}),
		allocator: alloc,
	}
}

func (c *coreFrame) release() {
	if c.allocator == nil || c.released {
		return
	}
	c.released = true
	c.allocator.Put(&chanPair{toCoro: c.toCoro, fromCoro: c.fromCoro})
}

// abortSignal is panicked inside a suspended coroutine body by Cancel to
// unwind it; run's recover distinguishes it from a genuine body panic.
type abortSignal struct{}

// TaskYield is the handle a [Task] body receives; its only operation is
// [Await].
type TaskYield struct {
	core *coreFrame
}

func (y *TaskYield) frame() *coreFrame { return y.core }

// yielder is implemented by both [TaskYield] and [StreamYield] so
// [Await] works on either without Go's no-type-parameter-methods
// restriction forcing two copies of the function.
type yielder interface {
	frame() *coreFrame
}

// Await polls p to completion on behalf of the enclosing Task or Stream
// body, yielding control back to the driver every time p reports
// Pending, exactly as a co_await would (§4.3 item 2). It is a
// package-level generic function, not a method, because Go forbids a
// method from introducing its own type parameter.
func Await[R any](y yielder, p Pollable[R]) R {
	core := y.frame()
	var slot R
	core.currentChildPoll = func(w *Waker) (done bool) {
		defer func() {
			if r := recover(); r != nil {
				core.childPanicVal = r
				core.childPanicked = true
				done = true
			}
		}()
		s := p.Poll(w)
		if s.IsReady() {
			slot = s.TakeResult()
			return true
		}
		return false
	}
	core.fromCoro <- struct{}{}
	<-core.toCoro
	core.currentChildPoll = nil
	if core.aborted {
		panic(abortSignal{})
	}
	if core.childPanicked {
		core.childPanicked = false
		r := core.childPanicVal
		core.childPanicVal = nil
		panic(r)
	}
	return slot
}

// NewTask creates a Task in the suspended-at-start state (§3): body does
// not run until the first Poll.
func NewTask[T any](body func(y *TaskYield) T) *Task[T] {
	return &Task[T]{body: body, core: newCoreFrame()}
}

func (t *Task[T]) run() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortSignal); !ok {
				t.core.panicVal = r
			}
		}
		t.done = true
		t.core.fromCoro <- struct{}{}
	}()
	y := &TaskYield{core: &t.core}
	t.result = t.body(y)
}

// Poll implements [Pollable]. See §4.3 for the algorithm this follows
// step for step.
func (t *Task[T]) Poll(w *Waker) PollState[T] {
	if t.consumed {
		panicContractViolation(ErrPolledAfterReady)
	}
	if t.done {
		return t.finish()
	}

	doneChild := true
	if t.core.currentChildPoll != nil {
		doneChild = t.core.currentChildPoll(w)
	}

	resumed := false
	if doneChild {
		resumed = true
		if !t.started {
			t.started = true
			go t.run()
		} else {
			t.core.toCoro <- struct{}{}
		}
		<-t.core.fromCoro
	}

	if t.done {
		return t.finish()
	}
	if resumed {
		// The coroutine suspended on a new child we have not yet polled
		// this round; nothing else will wake us for it, so self-wake.
		logDebug("task: self-waking after resuming into a new suspension point", nil)
		w.Wake()
	}
	return PendingState[T]()
}

func (t *Task[T]) finish() PollState[T] {
	t.consumed = true
	t.core.release()
	if t.core.panicVal != nil {
		panic(capturePanic(t.core.panicVal))
	}
	return ReadyState(t.result)
}

// Cancel abandons an in-flight Task, unwinding its coroutine body
// (running deferred cleanup inside it) without waiting for it to reach
// a co_await-free return. It is the closest Go analogue to "drop while
// un-completed destroys the coroutine frame" (§3): Go has no destructors,
// so cancellation must be explicit rather than implicit in scope exit.
// If the Task has not started or has already completed, Cancel only
// releases its frame. In every case the Task counts as consumed
// afterward: a later Poll panics with [ErrPolledAfterReady].
func (t *Task[T]) Cancel() {
	if !t.started || t.done || t.consumed {
		t.consumed = true
		t.core.release()
		return
	}
	t.core.aborted = true
	logWarn("task: cancelling in-flight coroutine", nil)
	t.core.toCoro <- struct{}{}
	<-t.core.fromCoro
	t.consumed = true
	t.core.release()
}
