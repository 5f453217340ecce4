package pollcoro

// drainState is the tri-state result of polling a substream installed
// by [StreamYield.YieldFrom].
type drainState int

const (
	drainPending drainState = iota
	drainReady
	drainDone
)

// Stream[T] is the stream analogue of [Task]: a goroutine-emulated
// coroutine frame whose co_yield v transitions to Ready(v) and whose
// return transitions to Done (§3, §4.3).
type Stream[T any] struct {
	core coreFrame

	body    func(y *StreamYield[T])
	started bool
	done    bool

	value    T
	hasValue bool

	drain func(w *Waker) drainState
}

// StreamYield is the handle a [Stream] body receives: [StreamYield.Yield]
// emits one element, [StreamYield.YieldFrom] drains a substream to Done
// before resuming local progress, and the package-level [Await] lets the
// body co_await an ordinary [Pollable].
type StreamYield[T any] struct {
	s *Stream[T]
}

func (y *StreamYield[T]) frame() *coreFrame { return &y.s.core }

// Yield stores v as the stream's next ready element and suspends until
// the driver's next PollNext call resumes the coroutine (§4.3 item 4).
func (y *StreamYield[T]) Yield(v T) {
	s := y.s
	s.value = v
	s.hasValue = true
	s.core.fromCoro <- struct{}{}
	<-s.core.toCoro
	if s.core.aborted {
		panic(abortSignal{})
	}
}

// YieldFrom drains sub to Done before resuming local progress (§3,
// "Streams additionally support co_yield <substream>"). Unlike Yield,
// the elements sub produces are reported directly by the enclosing
// Stream's PollNext without resuming this body for each one — the body
// suspends once, here, and only resumes once sub reports Done.
func (y *StreamYield[T]) YieldFrom(sub StreamPollable[T]) {
	s := y.s
	s.drain = func(w *Waker) (state drainState) {
		defer func() {
			if r := recover(); r != nil {
				s.core.childPanicVal = r
				s.core.childPanicked = true
				state = drainDone
			}
		}()
		st := sub.PollNext(w)
		switch {
		case st.IsDone():
			return drainDone
		case st.IsReady():
			s.value = st.TakeResult()
			s.hasValue = true
			return drainReady
		default:
			return drainPending
		}
	}
	s.core.fromCoro <- struct{}{}
	<-s.core.toCoro
	if s.core.aborted {
		panic(abortSignal{})
	}
	if s.core.childPanicked {
		s.core.childPanicked = false
		r := s.core.childPanicVal
		s.core.childPanicVal = nil
		panic(r)
	}
}

// NewStream creates a Stream in the suspended-at-start state: body does
// not run until the first PollNext.
func NewStream[T any](body func(y *StreamYield[T])) *Stream[T] {
	return &Stream[T]{body: body, core: newCoreFrame()}
}

func (s *Stream[T]) run() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortSignal); !ok {
				s.core.panicVal = r
			}
		}
		s.done = true
		s.core.fromCoro <- struct{}{}
	}()
	y := &StreamYield[T]{s: s}
	s.body(y)
}

func (s *Stream[T]) takeValue() T {
	v := s.value
	var zero T
	s.value = zero
	s.hasValue = false
	return v
}

// PollNext implements [StreamPollable]. See §4.3 for the algorithm.
func (s *Stream[T]) PollNext(w *Waker) StreamPollState[T] {
	if s.done {
		return StreamDoneState[T]()
	}

	if s.drain != nil {
		switch s.drain(w) {
		case drainReady:
			return StreamReadyState(s.takeValue())
		case drainPending:
			return StreamPendingState[T]()
		case drainDone:
			s.drain = nil
		}
	}

	doneChild := true
	if s.core.currentChildPoll != nil {
		doneChild = s.core.currentChildPoll(w)
	}

	resumed := false
	if doneChild {
		resumed = true
		if !s.started {
			s.started = true
			go s.run()
		} else {
			s.core.toCoro <- struct{}{}
		}
		<-s.core.fromCoro
	}

	if s.core.panicVal != nil {
		panic(capturePanic(s.core.panicVal))
	}
	if s.done {
		s.core.release()
		return StreamDoneState[T]()
	}
	if s.hasValue {
		return StreamReadyState(s.takeValue())
	}
	if s.drain != nil {
		// co_yield <substream> installed during this slice: poll it now
		// so an already-ready first element is reported this round.
		return s.PollNext(w)
	}
	if resumed {
		logDebug("stream: self-waking after resuming into a new suspension point", nil)
		w.Wake()
	}
	return StreamPendingState[T]()
}

// Cancel abandons an in-flight Stream, unwinding its coroutine body
// without waiting for it to reach Done. See [Task.Cancel]; the same
// caveats about Go having no implicit destructors apply.
func (s *Stream[T]) Cancel() {
	if !s.started || s.done {
		s.done = true
		s.core.release()
		return
	}
	s.core.aborted = true
	logWarn("stream: cancelling in-flight coroutine", nil)
	s.core.toCoro <- struct{}{}
	<-s.core.fromCoro
	s.core.release()
}
