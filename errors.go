package pollcoro

import (
	"errors"
	"fmt"
	"runtime"
)

// Sentinel errors for poll-protocol contract violations (§7.3 of the
// design: "undefined behavior at the contract level; implementations
// should either assert or document the failure mode" — pollcoro asserts,
// via panic, since a violation here is always a caller bug rather than a
// recoverable runtime condition).
var (
	// ErrTakeResultPending is the panic value when TakeResult is called
	// on a Pending PollState or StreamPollState.
	ErrTakeResultPending = errors.New("pollcoro: TakeResult called on a pending state")

	// ErrPolledAfterReady is the panic value when a Pollable is polled
	// again after it has already reported Ready.
	ErrPolledAfterReady = errors.New("pollcoro: pollable polled again after reporting ready")

	// ErrPolledAfterDone is the panic value when a StreamPollable is
	// polled again after reporting Done, for implementations that choose
	// to enforce strictness rather than silently repeating Done.
	ErrPolledAfterDone = errors.New("pollcoro: stream polled again after reporting done")

	// ErrLoopTerminated is the panic value, wrapped in a
	// [ContractViolation], when a [Mutex] or [SharedMutex] lock operation
	// is polled or attempted after that lock's Close.
	ErrLoopTerminated = errors.New("pollcoro: resource has been closed")
)

// ContractViolation wraps a contract-violation sentinel with a captured
// stack trace; the stack capture itself is not present on the
// eventloop package's PanicError, which wraps only the panic value.
type ContractViolation struct {
	Err   error
	Stack string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("%s\n%s", c.Err, c.Stack)
}

func (c *ContractViolation) Unwrap() error { return c.Err }

func panicContractViolation(err error) {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	panic(&ContractViolation{Err: err, Stack: string(buf[:n])})
}

// PanicError captures a value recovered from a panic inside a [Task] or
// [Stream] coroutine body, so it can be re-surfaced on the next Poll
// exactly like a captured exception per §4.3/§7.
type PanicError struct {
	// Value is the original argument passed to panic.
	Value any
	// Stack is the goroutine stack trace captured at the moment of panic.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("pollcoro: task panicked: %v\n%s", e.Value, e.Stack)
}

// Unwrap returns the underlying error if the panic value is an error,
// enabling use with [errors.Is]/[errors.As] through the cause chain.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func capturePanic(v any) *PanicError {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{Value: v, Stack: string(buf[:n])}
}

// JoinError aggregates several errors into one; joinNonNil builds it.
// [WaitAll], [WaitFirst], [Mutex] and [SharedMutex] do not produce one:
// none of them has an error path. It is a thin, Go-idiomatic stand-in for the eventloop
// package's AggregateError, built directly on [errors.Join] rather than
// reimplementing multi-error storage.
type JoinError struct {
	Errs []error
}

func (e *JoinError) Error() string { return errors.Join(e.Errs...).Error() }

func (e *JoinError) Unwrap() []error { return e.Errs }

// joinNonNil builds a JoinError from errs, skipping nils, and returns nil
// if nothing remains.
func joinNonNil(errs ...error) error {
	var out []error
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	if len(out) == 0 {
		return nil
	}
	if len(out) == 1 {
		return out[0]
	}
	return &JoinError{Errs: out}
}
