package pollcoro

// PollKind identifies which of the two states a [PollState] holds.
type PollKind uint8

const (
	// Pending means the pollable has not yet produced a value and has
	// registered the waker it was most recently given.
	Pending PollKind = iota
	// Ready means the pollable produced a final value; it must not be
	// polled again.
	Ready
)

// PollState is the result of a single [Pollable.Poll] call: either
// Pending (no value yet) or Ready (carrying a value of type T).
//
// The zero value is Pending.
type PollState[T any] struct {
	kind  PollKind
	value T
}

// ReadyState wraps v in a Ready PollState.
func ReadyState[T any](v T) PollState[T] {
	return PollState[T]{kind: Ready, value: v}
}

// PendingState returns a Pending PollState.
func PendingState[T any]() PollState[T] {
	return PollState[T]{kind: Pending}
}

// IsReady reports whether the state is Ready.
func (s PollState[T]) IsReady() bool { return s.kind == Ready }

// IsPending reports whether the state is Pending.
func (s PollState[T]) IsPending() bool { return s.kind == Pending }

// Kind returns the underlying [PollKind].
func (s PollState[T]) Kind() PollKind { return s.kind }

// TakeResult destructively extracts the Ready value.
//
// Calling TakeResult on a Pending state is a contract violation; it
// panics with [ErrTakeResultPending] via [panicContractViolation].
func (s PollState[T]) TakeResult() T {
	if s.kind != Ready {
		panicContractViolation(ErrTakeResultPending)
	}
	return s.value
}

// MapPoll applies f to a Ready value, leaving Pending untouched. It is
// the generic form of PollState[T].Map, needed because Go methods cannot
// introduce a new type parameter.
func MapPoll[T, R any](s PollState[T], f func(T) R) PollState[R] {
	if s.kind == Pending {
		return PendingState[R]()
	}
	return ReadyState(f(s.value))
}

// VoidPollState is the result type for pollables that carry no value,
// only a completion signal.
type VoidPollState = PollState[struct{}]

// VoidReady returns a Ready VoidPollState.
func VoidReady() VoidPollState { return ReadyState(struct{}{}) }

// VoidPending returns a Pending VoidPollState.
func VoidPending() VoidPollState { return PendingState[struct{}]() }

// StreamKind identifies which of the three states a [StreamPollState] holds.
type StreamKind uint8

const (
	// StreamPending means the stream has no element ready yet.
	StreamPending StreamKind = iota
	// StreamReady means the stream produced its next element.
	StreamReady
	// StreamDone marks permanent end-of-stream. Done is sticky: once a
	// stream reports it, further polls are implementation-defined but
	// conventionally also report Done.
	StreamDone
)

// StreamPollState is the result of a single [StreamPollable.PollNext]
// call: Pending, Ready(v), or Done.
type StreamPollState[T any] struct {
	kind  StreamKind
	value T
}

// StreamReadyState wraps v in a Ready StreamPollState.
func StreamReadyState[T any](v T) StreamPollState[T] {
	return StreamPollState[T]{kind: StreamReady, value: v}
}

// StreamPendingState returns a Pending StreamPollState.
func StreamPendingState[T any]() StreamPollState[T] {
	return StreamPollState[T]{kind: StreamPending}
}

// StreamDoneState returns a Done StreamPollState.
func StreamDoneState[T any]() StreamPollState[T] {
	return StreamPollState[T]{kind: StreamDone}
}

// IsReady reports whether the state is Ready.
func (s StreamPollState[T]) IsReady() bool { return s.kind == StreamReady }

// IsPending reports whether the state is Pending.
func (s StreamPollState[T]) IsPending() bool { return s.kind == StreamPending }

// IsDone reports whether the state is Done.
func (s StreamPollState[T]) IsDone() bool { return s.kind == StreamDone }

// Kind returns the underlying [StreamKind].
func (s StreamPollState[T]) Kind() StreamKind { return s.kind }

// TakeResult destructively extracts the Ready value. Calling it on a
// Pending or Done state is a contract violation.
func (s StreamPollState[T]) TakeResult() T {
	if s.kind != StreamReady {
		panicContractViolation(ErrTakeResultPending)
	}
	return s.value
}

// MapStreamPoll applies f to a Ready value, leaving Pending/Done untouched.
func MapStreamPoll[T, R any](s StreamPollState[T], f func(T) R) StreamPollState[R] {
	switch s.kind {
	case StreamPending:
		return StreamPendingState[R]()
	case StreamDone:
		return StreamDoneState[R]()
	default:
		return StreamReadyState(f(s.value))
	}
}
