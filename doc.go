// Package pollcoro implements poll-driven asynchronous computation: an
// execution model in which an asynchronous work unit is a value whose
// single operation is "advance as far as possible without blocking, and
// register an interest in being re-advanced later."
//
// # Poll protocol
//
// A [Pollable] exposes Poll(*Waker) [PollState]; a [StreamPollable] exposes
// PollNext(*Waker) [StreamPollState]. Both may be polled repeatedly while
// pending, must register the most recently passed [Waker], and must never
// be polled again once they report ready (Pollable) or the stream has
// reported [StreamDone] (StreamPollable, after which behavior is
// implementation-defined but conventionally repeats Done).
//
// # Task and Stream
//
// [Task] and [Stream] are the procedural building blocks: each runs a
// user function on its own goroutine, trampolining every await point
// back through a single poll call so the goroutine never progresses
// except when asked to. See task.go and stream.go for the coroutine
// emulation this relies on.
//
// # Combinators
//
// Package-level functions compose pollables and stream-pollables:
// [Map], [Ref], [ReadyValue], [PendingForever], [Empty], [Yield] for
// single values, and [RangeStream] through [Nth] for streams. [WaitAll]
// and [WaitFirst] fan concurrent pollables in.
//
// # Driver
//
// [BlockOn] runs a pollable to completion on the calling goroutine using
// a condition-variable-backed waker.
//
// This package owns no event loop and schedules nothing on its own;
// parallelism, if any, comes from whatever invokes a [Waker.Wake].
package pollcoro
